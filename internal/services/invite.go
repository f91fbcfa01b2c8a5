package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"grouppass/internal/domain"
)

type inviteService struct {
	runner domain.TxRunner
	email  domain.EmailService
	links  linkBuilder
	logger *slog.Logger
}

// NewInviteService returns the create-or-reuse invite workflow.
func NewInviteService(runner domain.TxRunner, email domain.EmailService, baseURL string, logger *slog.Logger) domain.InviteService {
	return &inviteService{runner: runner, email: email, links: newLinkBuilder(baseURL), logger: logger}
}

// CreateOrReuseInvite validates the leader's manage token and returns the
// group's shared roster-entry link, creating it only when no valid one exists.
// Creation is idempotent under concurrency: two racing calls settle on one
// link because the lookup and the insert share a serializable transaction.
func (s *inviteService) CreateOrReuseInvite(ctx context.Context, manageToken string, email *string) (*domain.InviteResult, error) {
	newToken, err := mintToken()
	if err != nil {
		return nil, err
	}

	result := &domain.InviteResult{}
	var emailData *domain.InviteEmailData
	err = RunSerializable(ctx, s.runner, func(r domain.Repositories) error {
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
		now := time.Now()
		if link.Expired(now) {
			return domain.ErrTokenExpired()
		}

		group, err := r.Groups.GetByID(ctx, link.GroupID)
		if err != nil {
			return fmt.Errorf("get group: %w", err)
		}
		if group == nil {
			return domain.ErrInvalidToken()
		}
		if group.Locked() {
			return domain.ErrRosterLocked()
		}

		leader, err := r.Parents.GetByID(ctx, group.LeaderParentID)
		if err != nil {
			return fmt.Errorf("get leader parent: %w", err)
		}
		usedBy := "leader"
		if leader != nil {
			usedBy = leader.Name
		}

		claimed, err := r.Invites.Claim(ctx, manageToken, usedBy, now)
		if err != nil {
			return fmt.Errorf("claim manage link: %w", err)
		}
		if err := domain.AssertInviteTokenClaimed(claimed); err != nil {
			return err
		}

		shared, err := r.Invites.FindValidShared(ctx, group.ID, domain.PurposeRosterEntry, now)
		if err != nil {
			return fmt.Errorf("find shared link: %w", err)
		}
		if shared != nil {
			result.InviteToken = shared.Token
			result.ReusedExisting = true
			result.CreatedCount = 0
		} else {
			shared = &domain.InviteLink{
				GroupID: group.ID,
				Token:   newToken,
				Purpose: domain.PurposeRosterEntry,
				MaxUses: domain.UnlimitedUses(),
			}
			if err := r.Invites.Create(ctx, shared); err != nil {
				return fmt.Errorf("create shared link: %w", err)
			}
			result.InviteToken = shared.Token
			result.ReusedExisting = false
			result.CreatedCount = 1
		}
		result.GroupID = group.ID

		if email != nil {
			slot, err := r.Slots.GetByID(ctx, group.SlotID)
			if err != nil {
				return fmt.Errorf("get slot: %w", err)
			}
			emailData = &domain.InviteEmailData{
				GroupLeader: usedBy,
				InviteURL:   s.links.join(result.InviteToken),
			}
			if slot != nil {
				emailData.Instructor = slot.Instructor
				emailData.ClassDate = slot.StartAt.Format("2006-01-02 15:04")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.InviteURL = s.links.join(result.InviteToken)

	// Delivery is best-effort; the invite exists whether or not the email
	// makes it out.
	if email != nil && emailData != nil {
		if err := s.email.SendInviteLink(ctx, *email, emailData); err != nil {
			s.logger.WarnContext(ctx, "invite email failed", "group_id", result.GroupID, "err", err)
		}
	}
	return result, nil
}
