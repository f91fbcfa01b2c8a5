package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"grouppass/internal/domain"
)

// fakeTxRunner hands the body a fixed repository bundle. conflicts injects
// that many serialization aborts before the body is allowed to run.
type fakeTxRunner struct {
	repos     domain.Repositories
	attempts  int
	conflicts int
}

func (f *fakeTxRunner) Serializable(ctx context.Context, fn func(r domain.Repositories) error) error {
	f.attempts++
	if f.conflicts > 0 {
		f.conflicts--
		return &pq.Error{Code: "40001"}
	}
	return fn(f.repos)
}

// fakeParentRepo is an in-memory ParentRepository for tests.
type fakeParentRepo struct {
	byID    map[string]*domain.Parent
	byPhone map[string]*domain.Parent
	nextID  int
}

func newFakeParentRepo() *fakeParentRepo {
	return &fakeParentRepo{
		byID:    make(map[string]*domain.Parent),
		byPhone: make(map[string]*domain.Parent),
		nextID:  1,
	}
}

func (f *fakeParentRepo) UpsertByPhone(ctx context.Context, name, phone string, cashReceipt *string) (*domain.Parent, error) {
	if p, ok := f.byPhone[phone]; ok {
		p.Name = name
		if cashReceipt != nil {
			p.CashReceipt = cashReceipt
		}
		return p, nil
	}
	p := &domain.Parent{
		ID:          fmt.Sprintf("parent-%d", f.nextID),
		Name:        name,
		Phone:       phone,
		CashReceipt: cashReceipt,
		CreatedAt:   time.Now(),
	}
	f.nextID++
	f.byID[p.ID] = p
	f.byPhone[phone] = p
	return p, nil
}

func (f *fakeParentRepo) GetByID(ctx context.Context, id string) (*domain.Parent, error) {
	return f.byID[id], nil
}

// fakeSlotRepo is an in-memory ReservationSlotRepository for tests.
type fakeSlotRepo struct {
	byID   map[string]*domain.ReservationSlot
	nextID int
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{byID: make(map[string]*domain.ReservationSlot), nextID: 1}
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id string) (*domain.ReservationSlot, error) {
	return f.byID[id], nil
}

func (f *fakeSlotRepo) FindByInstructorWindow(ctx context.Context, instructor string, startAt, endAt time.Time) (*domain.ReservationSlot, error) {
	within := func(a, b time.Time) bool {
		d := a.Sub(b)
		if d < 0 {
			d = -d
		}
		return d <= domain.SlotWindowTolerance
	}
	for _, s := range f.byID {
		if s.Instructor == instructor && within(s.StartAt, startAt) && within(s.EndAt, endAt) {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSlotRepo) Create(ctx context.Context, slot *domain.ReservationSlot) error {
	slot.ID = fmt.Sprintf("slot-%d", f.nextID)
	f.nextID++
	f.byID[slot.ID] = slot
	return nil
}

// fakeGroupRepo is an in-memory GroupPassRepository for tests.
type fakeGroupRepo struct {
	byID   map[string]*domain.GroupPass
	nextID int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{byID: make(map[string]*domain.GroupPass), nextID: 1}
}

func (f *fakeGroupRepo) Create(ctx context.Context, group *domain.GroupPass) error {
	group.ID = fmt.Sprintf("group-%d", f.nextID)
	f.nextID++
	f.byID[group.ID] = group
	return nil
}

func (f *fakeGroupRepo) GetByID(ctx context.Context, id string) (*domain.GroupPass, error) {
	return f.byID[id], nil
}

func (f *fakeGroupRepo) MarkCollecting(ctx context.Context, groupID string) (int64, error) {
	g, ok := f.byID[groupID]
	if !ok || g.RosterStatus != domain.RosterStatusDraft {
		return 0, nil
	}
	g.RosterStatus = domain.RosterStatusCollecting
	return 1, nil
}

func (f *fakeGroupRepo) Lock(ctx context.Context, groupID string, headcountFinal int) (int64, error) {
	g, ok := f.byID[groupID]
	if !ok || g.RosterStatus == domain.RosterStatusLocked {
		return 0, nil
	}
	g.RosterStatus = domain.RosterStatusLocked
	g.HeadcountFinal = &headcountFinal
	return 1, nil
}

// fakeInviteRepo is an in-memory InviteLinkRepository for tests. Claim mirrors
// the conditional-update semantics of the real store: the remaining-uses and
// expiry checks are part of the claim itself.
type fakeInviteRepo struct {
	byToken map[string]*domain.InviteLink
	order   []string
	nextID  int
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{byToken: make(map[string]*domain.InviteLink), nextID: 1}
}

func (f *fakeInviteRepo) Create(ctx context.Context, link *domain.InviteLink) error {
	link.ID = fmt.Sprintf("link-%d", f.nextID)
	f.nextID++
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	f.byToken[link.Token] = link
	f.order = append(f.order, link.Token)
	return nil
}

func (f *fakeInviteRepo) GetByToken(ctx context.Context, token string) (*domain.InviteLink, error) {
	return f.byToken[token], nil
}

func (f *fakeInviteRepo) FindValidShared(ctx context.Context, groupID, purpose string, now time.Time) (*domain.InviteLink, error) {
	for _, tok := range f.order {
		l := f.byToken[tok]
		if l.GroupID == groupID && l.Purpose == purpose && !l.Expired(now) && l.MaxUses.Allows(l.UsedCount) {
			return l, nil
		}
	}
	return nil, nil
}

func (f *fakeInviteRepo) Claim(ctx context.Context, token string, usedBy string, now time.Time) (int64, error) {
	l, ok := f.byToken[token]
	if !ok || l.Expired(now) || !l.MaxUses.Allows(l.UsedCount) {
		return 0, nil
	}
	l.UsedCount++
	l.UsedAt = &now
	l.UsedBy = &usedBy
	return 1, nil
}

// fakeMemberRepo is an in-memory GroupMemberRepository for tests. The guarded
// writes consult the group repo the same way the real store's conditional
// updates join against group_passes.
type fakeMemberRepo struct {
	groups   *fakeGroupRepo
	byID     map[string]*domain.GroupMember
	children map[string]*domain.Child
	order    []string
	nextID   int
}

func newFakeMemberRepo(groups *fakeGroupRepo) *fakeMemberRepo {
	return &fakeMemberRepo{
		groups:   groups,
		byID:     make(map[string]*domain.GroupMember),
		children: make(map[string]*domain.Child),
		nextID:   1,
	}
}

func (f *fakeMemberRepo) CreateChild(ctx context.Context, child *domain.Child) error {
	child.ID = fmt.Sprintf("child-%d", f.nextID)
	f.nextID++
	f.children[child.ID] = child
	return nil
}

func (f *fakeMemberRepo) Create(ctx context.Context, member *domain.GroupMember) error {
	member.ID = fmt.Sprintf("member-%d", f.nextID)
	f.nextID++
	f.byID[member.ID] = member
	f.order = append(f.order, member.ID)
	return nil
}

func (f *fakeMemberRepo) GetByEditToken(ctx context.Context, editToken string) (*domain.GroupMember, error) {
	for _, m := range f.byID {
		if m.EditToken == editToken {
			m.Child = f.children[m.ChildID]
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberRepo) ListActiveByGroupAndPhone(ctx context.Context, groupID, phone string) ([]*domain.GroupMember, error) {
	var out []*domain.GroupMember
	for _, id := range f.order {
		m := f.byID[id]
		if m.GroupID == groupID && m.Status != domain.MemberStatusRemoved && m.ParentPhone != nil && *m.ParentPhone == phone {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) ListActiveByGroup(ctx context.Context, groupID string) ([]*domain.GroupMember, error) {
	var out []*domain.GroupMember
	for _, id := range f.order {
		m := f.byID[id]
		if m.GroupID == groupID && m.Status != domain.MemberStatusRemoved {
			m.Child = f.children[m.ChildID]
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) CountActiveByGroup(ctx context.Context, groupID string) (int, error) {
	n := 0
	for _, m := range f.byID {
		if m.GroupID == groupID && m.Status != domain.MemberStatusRemoved {
			n++
		}
	}
	return n, nil
}

func (f *fakeMemberRepo) locked(groupID string) bool {
	g, ok := f.groups.byID[groupID]
	return !ok || g.Locked()
}

func (f *fakeMemberRepo) UpdateGuarded(ctx context.Context, memberID string, upd domain.MemberUpdate) (int64, error) {
	m, ok := f.byID[memberID]
	if !ok || f.locked(m.GroupID) {
		return 0, nil
	}
	if upd.ParentName != nil {
		m.ParentName = *upd.ParentName
	}
	if upd.Note != nil {
		m.Note = upd.Note
	}
	if upd.ParentPhone.Set {
		m.ParentPhone = upd.ParentPhone.Value
	}
	return 1, nil
}

func (f *fakeMemberRepo) UpdateChild(ctx context.Context, childID string, upd domain.ChildUpdate) error {
	c, ok := f.children[childID]
	if !ok {
		return nil
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Grade != nil {
		c.Grade = upd.Grade
	}
	if upd.AttendedTrial != nil {
		c.AttendedTrial = *upd.AttendedTrial
	}
	if upd.AttendedGroup != nil {
		c.AttendedGroup = *upd.AttendedGroup
	}
	if upd.AttendedSolo != nil {
		c.AttendedSolo = *upd.AttendedSolo
	}
	return nil
}

func (f *fakeMemberRepo) MarkRemovedGuarded(ctx context.Context, memberID string) (int64, error) {
	m, ok := f.byID[memberID]
	if !ok || f.locked(m.GroupID) {
		return 0, nil
	}
	m.Status = domain.MemberStatusRemoved
	return 1, nil
}

// testEnv bundles the fakes behind one runner, mirroring the transaction-bound
// repository bundle the services see in production.
type testEnv struct {
	runner  *fakeTxRunner
	parents *fakeParentRepo
	slots   *fakeSlotRepo
	groups  *fakeGroupRepo
	invites *fakeInviteRepo
	members *fakeMemberRepo
}

func newTestEnv() *testEnv {
	parents := newFakeParentRepo()
	slots := newFakeSlotRepo()
	groups := newFakeGroupRepo()
	invites := newFakeInviteRepo()
	members := newFakeMemberRepo(groups)
	return &testEnv{
		runner: &fakeTxRunner{repos: domain.Repositories{
			Parents: parents,
			Slots:   slots,
			Groups:  groups,
			Invites: invites,
			Members: members,
		}},
		parents: parents,
		slots:   slots,
		groups:  groups,
		invites: invites,
		members: members,
	}
}

// seedGroup creates a slot, leader parent, group, and manage link, returning
// the manage token. The group starts in the given roster status.
func (e *testEnv) seedGroup(rosterStatus string, headcountDeclared *int) (groupID, manageToken string) {
	ctx := context.Background()
	slot := &domain.ReservationSlot{Instructor: "Kim", StartAt: time.Now().Add(24 * time.Hour), EndAt: time.Now().Add(25 * time.Hour), Status: "scheduled"}
	_ = e.slots.Create(ctx, slot)
	leader, _ := e.parents.UpsertByPhone(ctx, "Leader", "01012345678", nil)
	group := &domain.GroupPass{
		SlotID:            slot.ID,
		LeaderParentID:    leader.ID,
		Status:            domain.GroupStatusPendingInfo,
		RosterStatus:      rosterStatus,
		HeadcountDeclared: headcountDeclared,
	}
	_ = e.groups.Create(ctx, group)
	manageToken = "manage-" + group.ID
	_ = e.invites.Create(ctx, &domain.InviteLink{
		GroupID: group.ID,
		Token:   manageToken,
		Purpose: domain.PurposeLeaderOnly,
		MaxUses: domain.UnlimitedUses(),
	})
	return group.ID, manageToken
}

// seedInvite adds a shared roster-entry link to the group.
func (e *testEnv) seedInvite(groupID, token string) {
	_ = e.invites.Create(context.Background(), &domain.InviteLink{
		GroupID: groupID,
		Token:   token,
		Purpose: domain.PurposeRosterEntry,
		MaxUses: domain.UnlimitedUses(),
	})
}
