package services

import (
	"context"
	"fmt"
	"time"

	"grouppass/internal/domain"
)

// MaxStudentsPerSubmission caps how many students one roster entry may carry.
const MaxStudentsPerSubmission = 2

type rosterService struct {
	runner domain.TxRunner
	links  linkBuilder
}

// NewRosterService returns the submit-roster-entry workflow.
func NewRosterService(runner domain.TxRunner, baseURL string) domain.RosterService {
	return &rosterService{runner: runner, links: newLinkBuilder(baseURL)}
}

// SubmitRosterEntry claims the invite token and writes the family's roster
// entries as one serializable transaction. A resubmission from the same phone
// overwrites the family's earlier entries in place, keeping their edit tokens,
// and soft-removes any leftover entries beyond the new student count.
func (s *rosterService) SubmitRosterEntry(ctx context.Context, inviteToken string, in domain.SubmitRosterInput) (*domain.SubmitRosterResult, error) {
	phone := NormalizeDigits(in.ParentPhone)

	freshTokens := make([]string, len(in.Students))
	for i := range freshTokens {
		t, err := mintToken()
		if err != nil {
			return nil, err
		}
		freshTokens[i] = t
	}

	result := &domain.SubmitRosterResult{}
	err := RunSerializable(ctx, s.runner, func(r domain.Repositories) error {
		link, err := r.Invites.GetByToken(ctx, inviteToken)
		if err != nil {
			return fmt.Errorf("get invite link: %w", err)
		}
		if link == nil {
			return domain.ErrInvalidToken()
		}
		if link.Purpose != domain.PurposeRosterEntry {
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

		claimed, err := r.Invites.Claim(ctx, inviteToken, in.ParentName, now)
		if err != nil {
			return fmt.Errorf("claim invite link: %w", err)
		}
		if err := domain.AssertInviteTokenClaimed(claimed); err != nil {
			return err
		}

		// Entries previously submitted under the same phone are this
		// family's; they get overwritten rather than duplicated.
		var existing []*domain.GroupMember
		if phone != "" {
			existing, err = r.Members.ListActiveByGroupAndPhone(ctx, group.ID, phone)
			if err != nil {
				return fmt.Errorf("list existing members: %w", err)
			}
		}

		active, err := r.Members.CountActiveByGroup(ctx, group.ID)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		if group.HeadcountDeclared != nil {
			projected := active - len(existing) + len(in.Students)
			if projected > *group.HeadcountDeclared {
				return domain.ErrHeadcountExceeded()
			}
		}

		memberIDs := make([]string, 0, len(in.Students))
		editTokens := make([]string, 0, len(in.Students))
		for i, st := range in.Students {
			if i < len(existing) {
				m := existing[i]
				childUpd := domain.ChildUpdate{
					Name:          &st.Name,
					Grade:         st.Grade,
					AttendedTrial: &st.AttendedTrial,
					AttendedGroup: &st.AttendedGroup,
					AttendedSolo:  &st.AttendedSolo,
				}
				if err := r.Members.UpdateChild(ctx, m.ChildID, childUpd); err != nil {
					return fmt.Errorf("update child: %w", err)
				}
				upd := domain.MemberUpdate{ParentName: &in.ParentName, Note: in.Note}
				if phone != "" {
					upd.ParentPhone = domain.NullableString{Set: true, Value: &phone}
				}
				n, err := r.Members.UpdateGuarded(ctx, m.ID, upd)
				if err != nil {
					return fmt.Errorf("update member: %w", err)
				}
				if err := domain.AssertMemberUpdateApplied(n); err != nil {
					return err
				}
				memberIDs = append(memberIDs, m.ID)
				editTokens = append(editTokens, m.EditToken)
				continue
			}

			child := &domain.Child{
				Name:          st.Name,
				Grade:         st.Grade,
				AttendedTrial: st.AttendedTrial,
				AttendedGroup: st.AttendedGroup,
				AttendedSolo:  st.AttendedSolo,
			}
			if err := r.Members.CreateChild(ctx, child); err != nil {
				return fmt.Errorf("create child: %w", err)
			}
			member := &domain.GroupMember{
				GroupID:    group.ID,
				ChildID:    child.ID,
				ParentName: in.ParentName,
				Note:       in.Note,
				EditToken:  freshTokens[i],
				Status:     domain.MemberStatusCompleted,
			}
			if phone != "" {
				member.ParentPhone = &phone
			}
			if err := r.Members.Create(ctx, member); err != nil {
				return fmt.Errorf("create member: %w", err)
			}
			memberIDs = append(memberIDs, member.ID)
			editTokens = append(editTokens, member.EditToken)
		}

		// The family now submits fewer students than before: the leftovers
		// are soft-removed.
		for j := len(in.Students); j < len(existing); j++ {
			n, err := r.Members.MarkRemovedGuarded(ctx, existing[j].ID)
			if err != nil {
				return fmt.Errorf("remove member: %w", err)
			}
			if err := domain.AssertMemberUpdateApplied(n); err != nil {
				return err
			}
		}

		// Readiness signal for the leader, not a gate: a no-op once the
		// group is past draft.
		if _, err := r.Groups.MarkCollecting(ctx, group.ID); err != nil {
			return fmt.Errorf("mark collecting: %w", err)
		}

		count, err := r.Members.CountActiveByGroup(ctx, group.ID)
		if err != nil {
			return fmt.Errorf("recount members: %w", err)
		}

		result.GroupID = group.ID
		result.GroupMemberIDs = memberIDs
		result.EditTokens = editTokens
		result.CurrentMemberCount = count
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.EditURLs = make([]string, len(result.EditTokens))
	for i, t := range result.EditTokens {
		result.EditURLs[i] = s.links.edit(t)
	}
	return result, nil
}
