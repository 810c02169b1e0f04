package usecase_test

import (
	"context"
	"iter"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/model"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
	"github.com/secmon-lab/pulumi-connector/pkg/usecase"
)

func activeUser(email types.Email, username types.Username, role types.Role) *model.User {
	return &model.User{
		Email:    email,
		Role:     role,
		Username: username,
	}
}

func pendingUser(email types.Email, invitationID string) *model.User {
	return &model.User{
		Email:        email,
		Role:         types.RoleMember,
		InvitationID: invitationID,
	}
}

func TestUserCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("invites with email and role", func(t *testing.T) {
		client := &mockClient{}
		uc := usecase.New(client)

		uid, err := uc.Create(ctx, types.KindUser, model.AttributeSet{
			model.AttrEmail: {"new@example.com"},
			model.AttrRole:  {"admin"},
		})
		gt.NoError(t, err).Required()
		gt.Value(t, uid).Equal("new@example.com")
		gt.Array(t, client.calls).Equal([]string{"InviteUser:new@example.com:admin"})
	})

	t.Run("empty attributes are rejected", func(t *testing.T) {
		client := &mockClient{}
		uc := usecase.New(client)

		_, err := uc.Create(ctx, types.KindUser, model.AttributeSet{})
		gt.Error(t, err)
		gt.Bool(t, types.IsInvalidInput(err)).True()
		gt.Array(t, client.calls).Length(0)
	})

	t.Run("unsupported kind is rejected", func(t *testing.T) {
		client := &mockClient{}
		uc := usecase.New(client)

		_, err := uc.Create(ctx, types.ObjectKind("group"), model.AttributeSet{
			model.AttrEmail: {"new@example.com"},
		})
		gt.Error(t, err)
		gt.Bool(t, types.IsInvalidInput(err)).True()
	})
}

func TestUserUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("role change plus team assignment", func(t *testing.T) {
		client := &mockClient{
			getUserFn: func(ctx context.Context, email types.Email) (*model.User, error) {
				return activeUser("alice@example.com", "alice", types.RoleMember), nil
			},
		}
		uc := usecase.New(client)

		err := uc.Update(ctx, types.KindUser, "alice@example.com", model.DeltaSet{
			{Name: model.AttrRole, Replace: "admin", ReplaceSet: true},
			{Name: model.AttrTeams, Add: []string{"devops"}, Remove: []string{"security"}},
		})
		gt.NoError(t, err).Required()
		gt.Array(t, client.calls).Equal([]string{
			"UpdateUserRole:alice:admin",
			"AddTeamMember:devops:alice",
			"RemoveTeamMember:security:alice",
		})
	})

	t.Run("team-only update skips the role patch", func(t *testing.T) {
		client := &mockClient{
			getUserFn: func(ctx context.Context, email types.Email) (*model.User, error) {
				return activeUser("alice@example.com", "alice", types.RoleMember), nil
			},
		}
		uc := usecase.New(client)

		err := uc.Update(ctx, types.KindUser, "alice@example.com", model.DeltaSet{
			{Name: model.AttrTeams, Add: []string{"devops"}},
		})
		gt.NoError(t, err).Required()
		gt.Array(t, client.calls).Equal([]string{"AddTeamMember:devops:alice"})
	})

	t.Run("pending user cannot be updated", func(t *testing.T) {
		client := &mockClient{
			getUserFn: func(ctx context.Context, email types.Email) (*model.User, error) {
				return pendingUser("pending@example.com", "inv-1"), nil
			},
		}
		uc := usecase.New(client)

		err := uc.Update(ctx, types.KindUser, "pending@example.com", model.DeltaSet{
			{Name: model.AttrRole, Replace: "admin", ReplaceSet: true},
		})
		gt.Error(t, err)
		gt.Bool(t, types.IsInvalidState(err)).True()

		// Nothing was mutated.
		gt.Array(t, client.calls).Length(0)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		client := &mockClient{}
		uc := usecase.New(client)

		err := uc.Update(ctx, types.KindUser, "ghost@example.com", model.DeltaSet{
			{Name: model.AttrRole, Replace: "admin", ReplaceSet: true},
		})
		gt.Error(t, err)
		gt.Bool(t, types.IsNotFound(err)).True()
	})

	t.Run("empty uid is rejected", func(t *testing.T) {
		uc := usecase.New(&mockClient{})

		err := uc.Update(ctx, types.KindUser, "", model.DeltaSet{})
		gt.Error(t, err)
		gt.Bool(t, types.IsInvalidInput(err)).True()
	})
}

func TestUserDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("active member is removed", func(t *testing.T) {
		client := &mockClient{
			getUserFn: func(ctx context.Context, email types.Email) (*model.User, error) {
				return activeUser("bob@example.com", "bob", types.RoleMember), nil
			},
		}
		uc := usecase.New(client)

		gt.NoError(t, uc.Delete(ctx, types.KindUser, "bob@example.com"))
		gt.Array(t, client.calls).Equal([]string{"DeleteMember:bob"})
	})

	t.Run("pending user is cancelled", func(t *testing.T) {
		client := &mockClient{
			getUserFn: func(ctx context.Context, email types.Email) (*model.User, error) {
				return pendingUser("pending@example.com", "inv-1"), nil
			},
		}
		uc := usecase.New(client)

		gt.NoError(t, uc.Delete(ctx, types.KindUser, "pending@example.com"))
		gt.Array(t, client.calls).Equal([]string{"CancelInvitation:inv-1"})
	})

	t.Run("missing user is not found", func(t *testing.T) {
		uc := usecase.New(&mockClient{})

		err := uc.Delete(ctx, types.KindUser, "ghost@example.com")
		gt.Error(t, err)
		gt.Bool(t, types.IsNotFound(err)).True()
	})
}

func TestUserQuery(t *testing.T) {
	ctx := context.Background()

	identityFilter := func(email string) *model.Filter {
		return &model.Filter{Attr: model.AttrEmail, Op: model.FilterEquals, Values: []string{email}}
	}

	t.Run("identity lookup yields one record", func(t *testing.T) {
		client := &mockClient{
			getUserFn: func(ctx context.Context, email types.Email) (*model.User, error) {
				return activeUser("alice@example.com", "alice", types.RoleAdmin), nil
			},
		}
		uc := usecase.New(client)

		var records []*model.Record
		for record, err := range uc.Query(ctx, types.KindUser, identityFilter("alice@example.com"), nil) {
			gt.NoError(t, err).Required()
			records = append(records, record)
		}

		gt.Array(t, records).Length(1)
		gt.Value(t, records[0].UID).Equal("alice@example.com")
		gt.Value(t, records[0].Attrs[model.AttrEmail].Values).Equal([]string{"alice@example.com"})
		gt.Value(t, records[0].Attrs[model.AttrRole].Values).Equal([]string{"admin"})
		gt.Value(t, records[0].Attrs[model.AttrUsername].Values).Equal([]string{"alice"})

		// Teams were not requested, so no association lookup happened.
		_, hasTeams := records[0].Attrs[model.AttrTeams]
		gt.Bool(t, hasTeams).False()
	})

	t.Run("identity miss is an empty result", func(t *testing.T) {
		uc := usecase.New(&mockClient{})

		var count int
		for _, err := range uc.Query(ctx, types.KindUser, identityFilter("ghost@example.com"), nil) {
			gt.NoError(t, err).Required()
			count++
		}
		gt.Value(t, count).Equal(0)
	})

	t.Run("no filter scans all users", func(t *testing.T) {
		client := &mockClient{
			usersFn: staticUsers(
				pendingUser("pending@example.com", "inv-1"),
				activeUser("alice@example.com", "alice", types.RoleAdmin),
			),
		}
		uc := usecase.New(client)

		var records []*model.Record
		for record, err := range uc.Query(ctx, types.KindUser, nil, nil) {
			gt.NoError(t, err).Required()
			records = append(records, record)
		}

		gt.Array(t, records).Length(2)
		gt.Value(t, records[0].UID).Equal("pending@example.com")
		gt.Value(t, records[1].UID).Equal("alice@example.com")
	})

	t.Run("requested teams are resolved for active users", func(t *testing.T) {
		devops := &model.Team{Name: "devops", Members: []model.TeamMember{{Username: "alice"}}}
		security := &model.Team{Name: "security", Members: []model.TeamMember{}}

		client := &mockClient{
			getUserFn: func(ctx context.Context, email types.Email) (*model.User, error) {
				return activeUser("alice@example.com", "alice", types.RoleAdmin), nil
			},
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
		uc := usecase.New(client)

		opts := &model.QueryOptions{AttributesToGet: []string{model.AttrTeams}}
		var records []*model.Record
		for record, err := range uc.Query(ctx, types.KindUser, identityFilter("alice@example.com"), opts) {
			gt.NoError(t, err).Required()
			records = append(records, record)
		}

		gt.Array(t, records).Length(1)
		gt.Value(t, records[0].Attrs[model.AttrTeams].Values).Equal([]string{"devops"})
		gt.Bool(t, records[0].Attrs[model.AttrTeams].Incomplete).False()
	})

	t.Run("partial mode marks teams incomplete without fetching", func(t *testing.T) {
		client := &mockClient{
			getUserFn: func(ctx context.Context, email types.Email) (*model.User, error) {
				return activeUser("alice@example.com", "alice", types.RoleAdmin), nil
			},
			teamsFn: func(ctx context.Context) iter.Seq2[*model.Team, error] {
				t.Error("team listing must not be called in partial mode")
				return func(yield func(*model.Team, error) bool) {}
			},
		}
		uc := usecase.New(client)

		opts := &model.QueryOptions{
			AttributesToGet:             []string{model.AttrTeams},
			AllowPartialAttributeValues: true,
		}
		var records []*model.Record
		for record, err := range uc.Query(ctx, types.KindUser, identityFilter("alice@example.com"), opts) {
			gt.NoError(t, err).Required()
			records = append(records, record)
		}

		gt.Array(t, records).Length(1)
		teams := records[0].Attrs[model.AttrTeams]
		gt.Bool(t, teams.Incomplete).True()
		gt.Array(t, teams.Values).Length(0)
	})
}
