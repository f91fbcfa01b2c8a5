package services

import (
	"context"
	"fmt"
	"time"

	"grouppass/internal/domain"
)

type groupService struct {
	runner domain.TxRunner
}

// NewGroupService returns the leader overview and operator lock operations.
func NewGroupService(runner domain.TxRunner) domain.GroupService {
	return &groupService{runner: runner}
}

func (s *groupService) GetOverview(ctx context.Context, manageToken string) (*domain.GroupOverview, error) {
	overview := &domain.GroupOverview{}
	err := RunSerializable(ctx, s.runner, func(r domain.Repositories) error {
		link, err := r.Invites.GetByToken(ctx, manageToken)
		if err != nil {
			return fmt.Errorf("get manage link: %w", err)
		}
		if link == nil {
			return domain.ErrInvalidToken()
		}
		if link.Purpose != domain.PurposeLeaderOnly {
			return domain.ErrWrongTokenPurpose()
		}
		if link.Expired(time.Now()) {
			return domain.ErrTokenExpired()
		}

		group, err := r.Groups.GetByID(ctx, link.GroupID)
		if err != nil {
			return fmt.Errorf("get group: %w", err)
		}
		if group == nil {
			return domain.ErrInvalidToken()
		}
		slot, err := r.Slots.GetByID(ctx, group.SlotID)
		if err != nil {
			return fmt.Errorf("get slot: %w", err)
		}
		members, err := r.Members.ListActiveByGroup(ctx, group.ID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}

		overview.Group = group
		overview.Slot = slot
		overview.Members = members
		return nil
	})
	if err != nil {
		return nil, err
	}
	return overview, nil
}

// LockRoster finalizes the roster: no member or child mutation under the
// group succeeds afterwards. Locking an already-locked group is a no-op that
// reports the existing final headcount.
func (s *groupService) LockRoster(ctx context.Context, groupID string) (*domain.LockResult, error) {
	result := &domain.LockResult{}
	err := RunSerializable(ctx, s.runner, func(r domain.Repositories) error {
		group, err := r.Groups.GetByID(ctx, groupID)
		if err != nil {
			return fmt.Errorf("get group: %w", err)
		}
		if group == nil {
			return domain.ErrGroupNotFound()
		}
		if group.Locked() {
			result.GroupID = group.ID
			result.RosterStatus = group.RosterStatus
			if group.HeadcountFinal != nil {
				result.HeadcountFinal = *group.HeadcountFinal
			}
			return nil
		}

		count, err := r.Members.CountActiveByGroup(ctx, groupID)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		if _, err := r.Groups.Lock(ctx, groupID, count); err != nil {
			return fmt.Errorf("lock group: %w", err)
		}

		result.GroupID = groupID
		result.RosterStatus = domain.RosterStatusLocked
		result.HeadcountFinal = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
