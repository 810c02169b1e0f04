package usecase

// Mapper functions are exported for testing.
var (
	BuildInvitation = buildInvitation
	BuildTeamCreate = buildTeamCreate
	BuildUserUpdate = buildUserUpdate
	BuildTeamUpdate = buildTeamUpdate
)
