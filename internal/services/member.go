package services

import (
	"context"
	"fmt"

	"grouppass/internal/domain"
)

type memberService struct {
	runner domain.TxRunner
}

// NewMemberService returns the update-member workflow.
func NewMemberService(runner domain.TxRunner) domain.MemberService {
	return &memberService{runner: runner}
}

// UpdateMember applies a partial self-service edit. The child write shares
// the transaction with the guarded member write, so a lock transition between
// the group read and commit aborts the whole attempt; the member write's
// affected-row count stays the authoritative lock signal.
func (s *memberService) UpdateMember(ctx context.Context, editToken string, in domain.UpdateMemberInput) (string, error) {
	var memberID string
	err := RunSerializable(ctx, s.runner, func(r domain.Repositories) error {
		member, err := r.Members.GetByEditToken(ctx, editToken)
		if err != nil {
			return fmt.Errorf("get member: %w", err)
		}
		if member == nil {
			return domain.ErrMemberNotFound()
		}

		group, err := r.Groups.GetByID(ctx, member.GroupID)
		if err != nil {
			return fmt.Errorf("get group: %w", err)
		}
		if group == nil || group.Locked() {
			return domain.ErrRosterLocked()
		}

		childUpd := domain.ChildUpdate{
			Name:          in.ChildName,
			Grade:         in.Grade,
			AttendedTrial: in.AttendedTrial,
			AttendedGroup: in.AttendedGroup,
			AttendedSolo:  in.AttendedSolo,
		}
		if err := r.Members.UpdateChild(ctx, member.ChildID, childUpd); err != nil {
			return fmt.Errorf("update child: %w", err)
		}

		upd := domain.MemberUpdate{ParentName: in.ParentName, Note: in.Note}
		if in.ParentPhone.Set {
			upd.ParentPhone = domain.NullableString{
				Set:   true,
				Value: NormalizeNullablePhone(in.ParentPhone.Value),
			}
		}
		n, err := r.Members.UpdateGuarded(ctx, member.ID, upd)
		if err != nil {
			return fmt.Errorf("update member: %w", err)
		}
		if err := domain.AssertMemberUpdateApplied(n); err != nil {
			return err
		}

		memberID = member.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return memberID, nil
}
