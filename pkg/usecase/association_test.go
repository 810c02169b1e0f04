package usecase_test

import (
	"context"
	"iter"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/model"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
	"github.com/secmon-lab/pulumi-connector/pkg/usecase"
)

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves emails case-insensitively", func(t *testing.T) {
		client := &mockClient{
			usersFn: staticUsers(activeUser("Alice@Example.COM", "alice", types.RoleMember)),
		}
		assoc := usecase.NewAssociation(client)

		err := assoc.Reconcile(ctx, "devops", []types.Email{"alice@example.com"}, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, client.calls).Equal([]string{"AddTeamMember:devops:alice"})
	})

	t.Run("skips emails with no active member", func(t *testing.T) {
		client := &mockClient{
			usersFn: staticUsers(
				activeUser("alice@example.com", "alice", types.RoleMember),
				pendingUser("pending@example.com", "inv-1"),
			),
		}
		assoc := usecase.NewAssociation(client)

		err := assoc.Reconcile(ctx, "devops",
			[]types.Email{"pending@example.com", "nobody@example.com", "alice@example.com"}, nil)
		gt.NoError(t, err).Required()

		// Only the resolvable email produced a patch.
		gt.Array(t, client.calls).Equal([]string{"AddTeamMember:devops:alice"})
	})

	t.Run("remove list runs even when the add list failed", func(t *testing.T) {
		addErr := goerr.New("add failed")
		client := &mockClient{
			usersFn: staticUsers(
				activeUser("alice@example.com", "alice", types.RoleMember),
				activeUser("bob@example.com", "bob", types.RoleMember),
			),
			addTeamMemberFn: func(ctx context.Context, name types.TeamName, username types.Username) error {
				return addErr
			},
		}
		assoc := usecase.NewAssociation(client)

		err := assoc.Reconcile(ctx, "devops",
			[]types.Email{"alice@example.com"}, []types.Email{"bob@example.com"})
		gt.Error(t, err)
		gt.Array(t, client.calls).Equal([]string{
			"AddTeamMember:devops:alice",
			"RemoveTeamMember:devops:bob",
		})
	})

	t.Run("no increments means no listing", func(t *testing.T) {
		client := &mockClient{
			usersFn: func(ctx context.Context) iter.Seq2[*model.User, error] {
				t.Error("user listing must not be called for an empty reconcile")
				return func(yield func(*model.User, error) bool) {}
			},
		}
		assoc := usecase.NewAssociation(client)

		gt.NoError(t, assoc.Reconcile(ctx, "devops", nil, nil))
		gt.Array(t, client.calls).Length(0)
	})
}

func TestResolveMember(t *testing.T) {
	ctx := context.Background()

	client := &mockClient{
		usersFn: staticUsers(activeUser("Alice@Example.COM", "alice-gh", types.RoleMember)),
	}
	assoc := usecase.NewAssociation(client)

	t.Run("email resolves to the native username", func(t *testing.T) {
		username, err := assoc.ResolveMember(ctx, "alice@example.com")
		gt.NoError(t, err).Required()
		gt.Value(t, username).Equal(types.Username("alice-gh"))
	})

	t.Run("unresolved value passes through as a username", func(t *testing.T) {
		username, err := assoc.ResolveMember(ctx, "alice-gh")
		gt.NoError(t, err).Required()
		gt.Value(t, username).Equal(types.Username("alice-gh"))
	})
}

func TestTeamsForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("matches usernames case-insensitively", func(t *testing.T) {
		devops := &model.Team{Name: "devops", Members: []model.TeamMember{{Username: "Alice"}}}
		security := &model.Team{Name: "security", Members: []model.TeamMember{{Username: "bob"}}}

		client := &mockClient{
			teamsFn: staticTeams(devops, security),
			getTeamFn: func(ctx context.Context, name types.TeamName) (*model.Team, error) {
				switch name {
				case "devops":
					return devops, nil
				default:
					return security, nil
				}
			},
		}
		assoc := usecase.NewAssociation(client)

		names, err := assoc.TeamNamesForUser(ctx, "alice")
		gt.NoError(t, err).Required()
		gt.Value(t, names).Equal([]string{"devops"})
	})

	t.Run("skips teams that vanished between listing and fetch", func(t *testing.T) {
		devops := &model.Team{Name: "devops", Members: []model.TeamMember{{Username: "alice"}}}

		client := &mockClient{
			teamsFn: staticTeams(&model.Team{Name: "ghost"}, devops),
			getTeamFn: func(ctx context.Context, name types.TeamName) (*model.Team, error) {
				if name == "ghost" {
					return nil, nil
				}
				return devops, nil
			},
		}
		assoc := usecase.NewAssociation(client)

		names, err := assoc.TeamNamesForUser(ctx, "alice")
		gt.NoError(t, err).Required()
		gt.Value(t, names).Equal([]string{"devops"})
	})
}

func TestMemberEmails(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches details when the listing form is given", func(t *testing.T) {
		var fetched bool
		client := &mockClient{
			getTeamFn: func(ctx context.Context, name types.TeamName) (*model.Team, error) {
				fetched = true
				return &model.Team{
					Name:    name,
					Members: []model.TeamMember{{Username: "alice"}},
				}, nil
			},
			usersFn: staticUsers(activeUser("alice@example.com", "alice", types.RoleMember)),
		}
		assoc := usecase.NewAssociation(client)

		emails, err := assoc.MemberEmails(ctx, &model.Team{Name: "devops"})
		gt.NoError(t, err).Required()
		gt.Bool(t, fetched).True()
		gt.Value(t, emails).Equal([]string{"alice@example.com"})
	})

	t.Run("uses an already fetched member list", func(t *testing.T) {
		client := &mockClient{
			getTeamFn: func(ctx context.Context, name types.TeamName) (*model.Team, error) {
				t.Error("detail fetch must not happen for a fetched team")
				return nil, nil
			},
			usersFn: staticUsers(activeUser("alice@example.com", "alice", types.RoleMember)),
		}
		assoc := usecase.NewAssociation(client)

		team := &model.Team{Name: "devops", Members: []model.TeamMember{{Username: "alice"}}}
		emails, err := assoc.MemberEmails(ctx, team)
		gt.NoError(t, err).Required()
		gt.Value(t, emails).Equal([]string{"alice@example.com"})
	})

	t.Run("vanished team is not found", func(t *testing.T) {
		assoc := usecase.NewAssociation(&mockClient{})

		_, err := assoc.MemberEmails(ctx, &model.Team{Name: "ghost"})
		gt.Error(t, err)
		gt.Bool(t, types.IsNotFound(err)).True()
	})
}
