package roster

import "strings"

// Match pairs workspace identities with workers, keyed by normalized identity
// email. A worker matches when its email equals the identity's email, equals
// the "+1" alias of that email (corporate alias convention, sam@x.com ->
// sam+1@x.com), or when its name contains the identity's name. Workers are
// scanned in their given order and the first hit wins; a worker is bound to at
// most one identity. Identities without a match produce no entry.
func Match(identities []WorkspaceIdentity, workers []Worker) map[string]IdentityLink {
	links := make(map[string]IdentityLink, len(identities))
	bound := make(map[int64]bool, len(workers))

	for _, identity := range identities {
		email := normalize(identity.Email)
		name := normalize(identity.DisplayName)
		alias := aliasEmail(email)

		for _, worker := range workers {
			if bound[worker.Id] {
				continue
			}
			workerEmail := normalize(worker.Email)
			workerName := normalize(worker.Name)

			emailMatch := workerEmail != "" && (workerEmail == email || workerEmail == alias)
			nameMatch := name != "" && strings.Contains(workerName, name)
			if !emailMatch && !nameMatch {
				continue
			}

			links[email] = IdentityLink{
				WorkspaceId:    identity.Id,
				WorkspaceEmail: email,
				WorkspaceName:  name,
				WorkerId:       worker.Id,
				WorkerName:     workerName,
				WorkerEmail:    workerEmail,
				Active:         identity.Active && worker.Active,
			}
			bound[worker.Id] = true
			break
		}
	}

	return links
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// aliasEmail inserts a "+1" tag before the "@". Emails without an "@" are
// returned unchanged.
func aliasEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "+1" + email[at:]
}
