package pulumi

// Wire shapes of the Pulumi Cloud REST API. Only the fields the connector
// touches are declared; unknown fields are ignored on decode.

type inviteBody struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type invitesBody struct {
	Invites []inviteBody `json:"invites"`
}

type userBody struct {
	Name        string `json:"name"`
	GithubLogin string `json:"githubLogin"`
	AvatarURL   string `json:"avatarUrl"`
	Email       string `json:"email"`
}

type memberBody struct {
	Role string   `json:"role"`
	User userBody `json:"user"`
}

type membersBody struct {
	Members []memberBody `json:"members"`
}

type roleUpdateBody struct {
	Role string `json:"role"`
}

type teamBody struct {
	Kind        string `json:"kind,omitempty"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

type teamsBody struct {
	Teams []teamBody `json:"teams"`
}

type teamMemberBody struct {
	Name        string `json:"name"`
	GithubLogin string `json:"githubLogin"`
	AvatarURL   string `json:"avatarUrl"`
}

// The API sends JSON null for a team without members; decoding leaves the
// slice nil and GetTeam normalizes it to an empty list.
type teamWithMembersBody struct {
	Kind        string           `json:"kind"`
	Name        string           `json:"name"`
	DisplayName string           `json:"displayName"`
	Description string           `json:"description"`
	Members     []teamMemberBody `json:"members"`
}

type teamUpdateBody struct {
	NewDisplayName *string `json:"newDisplayName,omitempty"`
	NewDescription *string `json:"newDescription,omitempty"`
}

type memberActionBody struct {
	MemberAction string `json:"memberAction"`
	Member       string `json:"member"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *errorBody) isAlreadyExists() bool {
	return e.Code == 409
}
