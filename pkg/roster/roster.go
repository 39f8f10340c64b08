package roster

// WorkspaceIdentity is an account in the Google Workspace directory. An
// identity that disappears from a directory refresh is marked inactive rather
// than removed, so its mirrored appointments can still be cleaned up.
type WorkspaceIdentity struct {
	Id          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Active      bool   `json:"active"`
}

// Worker is a technician record in ServiceTitan. Same inactive-not-deleted
// rule as WorkspaceIdentity.
type Worker struct {
	Id            int64  `json:"id"`
	UserAccountId int64  `json:"userAccountId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Active        bool   `json:"active"`
}

// IdentityLink is the resolved pairing between a workspace identity and a
// worker. Active is true only when both sides are active. Links are recomputed
// from the current rosters every cycle; stale entries are overwritten.
type IdentityLink struct {
	WorkspaceId    string `json:"workspaceId"`
	WorkspaceEmail string `json:"workspaceEmail"`
	WorkspaceName  string `json:"workspaceName"`
	WorkerId       int64  `json:"workerId"`
	WorkerName     string `json:"workerName"`
	WorkerEmail    string `json:"workerEmail"`
	Active         bool   `json:"active"`
}
