package services

import (
	"context"
	"fmt"

	"grouppass/internal/domain"
)

type bookingService struct {
	runner domain.TxRunner
	links  linkBuilder
}

// NewBookingService returns the create-booking workflow.
func NewBookingService(runner domain.TxRunner, baseURL string) domain.BookingService {
	return &bookingService{runner: runner, links: newLinkBuilder(baseURL)}
}

// CreateBooking creates the slot (when needed), the leader parent, the group,
// and the leader's manage link as one all-or-nothing transaction. There is no
// contested claim on this path, but the uniform retry loop still applies.
func (s *bookingService) CreateBooking(ctx context.Context, in domain.CreateBookingInput) (*domain.BookingResult, error) {
	phone := NormalizeDigits(in.ParentPhone)

	// Tokens are minted outside the transaction so a retried attempt reuses
	// the same values.
	manageToken, err := mintToken()
	if err != nil {
		return nil, err
	}
	var leaderEditToken string
	if in.LeaderStudent != nil {
		if leaderEditToken, err = mintToken(); err != nil {
			return nil, err
		}
	}

	result := &domain.BookingResult{}
	err = RunSerializable(ctx, s.runner, func(r domain.Repositories) error {
		slot, err := s.resolveSlot(ctx, r.Slots, in)
		if err != nil {
			return err
		}

		parent, err := r.Parents.UpsertByPhone(ctx, in.ParentName, phone, in.CashReceipt)
		if err != nil {
			return fmt.Errorf("upsert parent: %w", err)
		}

		rosterStatus := domain.RosterStatusDraft
		if in.LeaderStudent != nil {
			rosterStatus = domain.RosterStatusCollecting
		}
		group := &domain.GroupPass{
			SlotID:            slot.ID,
			LeaderParentID:    parent.ID,
			Status:            domain.GroupStatusPendingInfo,
			RosterStatus:      rosterStatus,
			HeadcountDeclared: in.HeadcountDeclared,
			Memo:              in.Memo,
		}
		if err := r.Groups.Create(ctx, group); err != nil {
			return fmt.Errorf("create group: %w", err)
		}

		manage := &domain.InviteLink{
			GroupID: group.ID,
			Token:   manageToken,
			Purpose: domain.PurposeLeaderOnly,
			MaxUses: domain.UnlimitedUses(),
		}
		if err := r.Invites.Create(ctx, manage); err != nil {
			return fmt.Errorf("create manage link: %w", err)
		}

		if in.LeaderStudent != nil {
			st := in.LeaderStudent
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
				GroupID:     group.ID,
				ChildID:     child.ID,
				ParentName:  in.ParentName,
				ParentPhone: &phone,
				Note:        in.LeaderNote,
				EditToken:   leaderEditToken,
				Status:      domain.MemberStatusCompleted,
			}
			if err := r.Members.Create(ctx, member); err != nil {
				return fmt.Errorf("create leader member: %w", err)
			}
		}

		result.GroupID = group.ID
		result.SlotID = slot.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.ManageToken = manageToken
	result.ManageURL = s.links.manage(manageToken)
	if in.LeaderStudent != nil {
		u := s.links.edit(leaderEditToken)
		result.LeaderEditURL = &u
	}
	return result, nil
}

func (s *bookingService) resolveSlot(ctx context.Context, slots domain.ReservationSlotRepository, in domain.CreateBookingInput) (*domain.ReservationSlot, error) {
	if in.SlotID != nil {
		slot, err := slots.GetByID(ctx, *in.SlotID)
		if err != nil {
			return nil, fmt.Errorf("get slot: %w", err)
		}
		if err := domain.AssertBookingSlotExists(slot); err != nil {
			return nil, err
		}
		return slot, nil
	}

	slot, err := slots.FindByInstructorWindow(ctx, in.Instructor, in.StartAt, in.EndAt)
	if err != nil {
		return nil, fmt.Errorf("find slot: %w", err)
	}
	if slot != nil {
		return slot, nil
	}
	slot = &domain.ReservationSlot{
		Instructor: in.Instructor,
		StartAt:    in.StartAt,
		EndAt:      in.EndAt,
		Status:     "scheduled",
	}
	if err := slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return slot, nil
}
