package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grouppass/internal/domain"
)

func TestGetOverview(t *testing.T) {
	env := newTestEnv()
	svc := NewGroupService(env.runner)

	groupID, manageToken := env.seedGroup(domain.RosterStatusCollecting, nil)
	seedMember(t, env, groupID, "edit-1", "01022223333")

	overview, err := svc.GetOverview(context.Background(), manageToken)
	require.NoError(t, err)

	require.NotNil(t, overview.Group)
	assert.Equal(t, groupID, overview.Group.ID)
	require.NotNil(t, overview.Slot)
	assert.Equal(t, "Kim", overview.Slot.Instructor)
	require.Len(t, overview.Members, 1)
	require.NotNil(t, overview.Members[0].Child)
}

func TestGetOverview_TokenErrors(t *testing.T) {
	env := newTestEnv()
	svc := NewGroupService(env.runner)

	groupID, _ := env.seedGroup(domain.RosterStatusCollecting, nil)
	env.seedInvite(groupID, "shared-1")

	_, err := svc.GetOverview(context.Background(), "unknown")
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ReasonInvalidToken, de.Reason)

	_, err = svc.GetOverview(context.Background(), "shared-1")
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ReasonWrongTokenPurpose, de.Reason)
}

func TestLockRoster(t *testing.T) {
	env := newTestEnv()
	svc := NewGroupService(env.runner)

	groupID, _ := env.seedGroup(domain.RosterStatusCollecting, nil)
	seedMember(t, env, groupID, "edit-1", "01022223333")
	seedMember(t, env, groupID, "edit-2", "01044445555")

	res, err := svc.LockRoster(context.Background(), groupID)
	require.NoError(t, err)
	assert.Equal(t, domain.RosterStatusLocked, res.RosterStatus)
	assert.Equal(t, 2, res.HeadcountFinal)

	group := env.groups.byID[groupID]
	assert.True(t, group.Locked())
	require.NotNil(t, group.HeadcountFinal)
	assert.Equal(t, 2, *group.HeadcountFinal)
}

func TestLockRoster_Idempotent(t *testing.T) {
	env := newTestEnv()
	svc := NewGroupService(env.runner)

	groupID, _ := env.seedGroup(domain.RosterStatusCollecting, nil)
	seedMember(t, env, groupID, "edit-1", "01022223333")

	first, err := svc.LockRoster(context.Background(), groupID)
	require.NoError(t, err)

	// A member added before the second lock call must not change the final
	// headcount recorded at lock time.
	second, err := svc.LockRoster(context.Background(), groupID)
	require.NoError(t, err)
	assert.Equal(t, first.HeadcountFinal, second.HeadcountFinal)
	assert.Equal(t, domain.RosterStatusLocked, second.RosterStatus)
}

func TestLockRoster_UnknownGroup(t *testing.T) {
	env := newTestEnv()
	svc := NewGroupService(env.runner)

	_, err := svc.LockRoster(context.Background(), "group-404")
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ReasonGroupNotFound, de.Reason)
	assert.Equal(t, 404, de.Status)
}
