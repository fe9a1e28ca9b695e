package services

import (
	"context"
	"sort"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes shared by the service tests. They implement
// the same contracts the mongodb package does, including nil-to-empty slice
// normalization and ErrNoDocuments on missing rows.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	found := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			found = append(found, u)
		}
	}
	return found, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*models.User, error) {
	all := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	return all, nil
}

func (r *fakeUserRepo) IncrementWalletBalance(_ context.Context, userID primitive.ObjectID, amount float64) error {
	user, ok := r.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.WalletBalance += amount
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeScoreRepo struct {
	scores []*models.ScoreRecord
}

func newFakeScoreRepo() *fakeScoreRepo { return &fakeScoreRepo{} }

func (r *fakeScoreRepo) Create(_ context.Context, score *models.ScoreRecord) error {
	if score.ID.IsZero() {
		score.ID = primitive.NewObjectID()
	}
	if score.CreatedAt.IsZero() {
		score.CreatedAt = time.Now()
	}
	r.scores = append(r.scores, score)
	return nil
}

func (r *fakeScoreRepo) CreateMany(ctx context.Context, scores []*models.ScoreRecord) error {
	for _, s := range scores {
		if err := r.Create(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeScoreRepo) FindByUserID(_ context.Context, userID primitive.ObjectID, limit int) ([]*models.ScoreRecord, error) {
	found := make([]*models.ScoreRecord, 0)
	for _, s := range r.scores {
		if s.UserID == userID {
			found = append(found, s)
		}
	}
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (r *fakeScoreRepo) AggregateFrequencies(_ context.Context, min, max int, since time.Time) ([]models.ScoreFrequency, error) {
	counts := make(map[int]int)
	for _, s := range r.scores {
		if s.Score >= min && s.Score <= max && !s.CreatedAt.Before(since) {
			counts[s.Score]++
		}
	}
	frequencies := make([]models.ScoreFrequency, 0, len(counts))
	for score, count := range counts {
		frequencies = append(frequencies, models.ScoreFrequency{Score: score, Count: count})
	}
	sort.Slice(frequencies, func(i, j int) bool {
		if frequencies[i].Count != frequencies[j].Count {
			return frequencies[i].Count < frequencies[j].Count
		}
		return frequencies[i].Score < frequencies[j].Score
	})
	return frequencies, nil
}

func (r *fakeScoreRepo) RecentScoreValues(_ context.Context, userID primitive.ObjectID, limit int) ([]int, error) {
	var records []*models.ScoreRecord
	for _, s := range r.scores {
		if s.UserID == userID {
			records = append(records, s)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	values := make([]int, 0, limit)
	for _, rec := range records {
		if len(values) == limit {
			break
		}
		values = append(values, rec.Score)
	}
	return values, nil
}

func (r *fakeScoreRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.scores)), nil
}

type fakeSubscriptionRepo struct {
	subs map[primitive.ObjectID]*models.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[primitive.ObjectID]*models.Subscription)}
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, sub *models.Subscription) error {
	if sub.ID.IsZero() {
		sub.ID = primitive.NewObjectID()
	}
	r.subs[sub.ID] = sub
	return nil
}

func (r *fakeSubscriptionRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Subscription, error) {
	sub, ok := r.subs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return sub, nil
}

func (r *fakeSubscriptionRepo) FindByUserID(_ context.Context, userID primitive.ObjectID) ([]*models.Subscription, error) {
	found := make([]*models.Subscription, 0)
	for _, s := range r.subs {
		if s.UserID == userID {
			found = append(found, s)
		}
	}
	return found, nil
}

func (r *fakeSubscriptionRepo) Update(_ context.Context, sub *models.Subscription) error {
	r.subs[sub.ID] = sub
	return nil
}

func (r *fakeSubscriptionRepo) sorted() []*models.Subscription {
	all := make([]*models.Subscription, 0, len(r.subs))
	for _, s := range r.subs {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all
}

func (r *fakeSubscriptionRepo) FindLive(_ context.Context) ([]*models.Subscription, error) {
	found := make([]*models.Subscription, 0)
	for _, s := range r.sorted() {
		if s.IsLive() {
			found = append(found, s)
		}
	}
	return found, nil
}

func (r *fakeSubscriptionRepo) FindByAssignedDraw(_ context.Context, drawID primitive.ObjectID) ([]*models.Subscription, error) {
	found := make([]*models.Subscription, 0)
	for _, s := range r.sorted() {
		if s.AssignedDrawID == drawID {
			found = append(found, s)
		}
	}
	return found, nil
}

func (r *fakeSubscriptionRepo) FindUnassignedMonthly(_ context.Context) ([]*models.Subscription, error) {
	found := make([]*models.Subscription, 0)
	for _, s := range r.sorted() {
		if s.Plan == models.PlanMonthly && s.IsLive() && s.AssignedDrawID.IsZero() {
			found = append(found, s)
		}
	}
	return found, nil
}

func (r *fakeSubscriptionRepo) ExpireMonthlyByDraw(_ context.Context, drawID primitive.ObjectID) (int64, error) {
	var expired int64
	for _, s := range r.subs {
		if s.Plan == models.PlanMonthly && s.AssignedDrawID == drawID && s.IsLive() {
			s.Status = models.SubscriptionCancelled
			s.DrawsRemaining = 0
			expired++
		}
	}
	return expired, nil
}

func (r *fakeSubscriptionRepo) ReactivateMonthlyByDraw(_ context.Context, drawID primitive.ObjectID) (int64, error) {
	var reactivated int64
	for _, s := range r.subs {
		if s.Plan == models.PlanMonthly && s.AssignedDrawID == drawID && s.Status == models.SubscriptionCancelled {
			s.Status = models.SubscriptionActive
			s.DrawsRemaining = 1
			reactivated++
		}
	}
	return reactivated, nil
}

func (r *fakeSubscriptionRepo) FindByMonthLabel(_ context.Context, monthLabel string) ([]*models.Subscription, error) {
	found := make([]*models.Subscription, 0)
	for _, s := range r.sorted() {
		if s.AssignedDrawMonth == monthLabel && s.AssignedDrawID.IsZero() {
			found = append(found, s)
		}
	}
	return found, nil
}

type fakeDrawRepo struct {
	draws map[primitive.ObjectID]*models.Draw
}

func newFakeDrawRepo() *fakeDrawRepo {
	return &fakeDrawRepo{draws: make(map[primitive.ObjectID]*models.Draw)}
}

func (r *fakeDrawRepo) Create(_ context.Context, draw *models.Draw) error {
	if draw.ID.IsZero() {
		draw.ID = primitive.NewObjectID()
	}
	if draw.CreatedAt.IsZero() {
		draw.CreatedAt = time.Now()
	}
	r.draws[draw.ID] = draw
	return nil
}

func (r *fakeDrawRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Draw, error) {
	draw, ok := r.draws[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *draw
	return &copied, nil
}

func (r *fakeDrawRepo) FindByMonthYear(_ context.Context, monthYear string) (*models.Draw, error) {
	for _, d := range r.draws {
		if d.MonthYear == monthYear {
			return d, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeDrawRepo) FindByStatus(_ context.Context, status models.DrawStatus) ([]*models.Draw, error) {
	found := make([]*models.Draw, 0)
	for _, d := range r.draws {
		if d.Status == status {
			found = append(found, d)
		}
	}
	return found, nil
}

func (r *fakeDrawRepo) FindOldestByStatus(_ context.Context, status models.DrawStatus) (*models.Draw, error) {
	var oldest *models.Draw
	for _, d := range r.draws {
		if d.Status != status {
			continue
		}
		if oldest == nil || d.DrawDate.Before(oldest.DrawDate) {
			oldest = d
		}
	}
	if oldest == nil {
		return nil, mongo.ErrNoDocuments
	}
	return oldest, nil
}

func (r *fakeDrawRepo) FindNewest(_ context.Context) (*models.Draw, error) {
	var newest *models.Draw
	for _, d := range r.draws {
		if newest == nil || d.DrawDate.After(newest.DrawDate) {
			newest = d
		}
	}
	if newest == nil {
		return nil, mongo.ErrNoDocuments
	}
	return newest, nil
}

func (r *fakeDrawRepo) Update(_ context.Context, draw *models.Draw) error {
	if _, ok := r.draws[draw.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	copied := *draw
	r.draws[draw.ID] = &copied
	return nil
}

func (r *fakeDrawRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.draws, id)
	return nil
}

func (r *fakeDrawRepo) FindAll(_ context.Context) ([]*models.Draw, error) {
	all := make([]*models.Draw, 0, len(r.draws))
	for _, d := range r.draws {
		all = append(all, d)
	}
	return all, nil
}

type fakeDrawEntryRepo struct {
	entries map[primitive.ObjectID]*models.DrawEntry
	// failUserIDs simulates insert failures for specific users
	failUserIDs map[primitive.ObjectID]bool
}

func newFakeDrawEntryRepo() *fakeDrawEntryRepo {
	return &fakeDrawEntryRepo{
		entries:     make(map[primitive.ObjectID]*models.DrawEntry),
		failUserIDs: make(map[primitive.ObjectID]bool),
	}
}

func (r *fakeDrawEntryRepo) Create(_ context.Context, entry *models.DrawEntry) error {
	if r.failUserIDs[entry.UserID] {
		return mongo.ErrClientDisconnected
	}
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeDrawEntryRepo) CreateMany(ctx context.Context, entries []*models.DrawEntry) error {
	for _, e := range entries {
		if err := r.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeDrawEntryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.DrawEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return entry, nil
}

func (r *fakeDrawEntryRepo) FindByDrawID(_ context.Context, drawID primitive.ObjectID) ([]*models.DrawEntry, error) {
	found := make([]*models.DrawEntry, 0)
	for _, e := range r.entries {
		if e.DrawID == drawID {
			found = append(found, e)
		}
	}
	return found, nil
}

func (r *fakeDrawEntryRepo) FindWinnersByDrawID(_ context.Context, drawID primitive.ObjectID) ([]*models.DrawEntry, error) {
	found := make([]*models.DrawEntry, 0)
	for _, e := range r.entries {
		if e.DrawID == drawID && e.Tier > 0 {
			found = append(found, e)
		}
	}
	return found, nil
}

func (r *fakeDrawEntryRepo) DeleteByDrawID(_ context.Context, drawID primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, e := range r.entries {
		if e.DrawID == drawID {
			delete(r.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeDrawEntryRepo) UpdateVerification(_ context.Context, id primitive.ObjectID, status string) error {
	entry, ok := r.entries[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	entry.VerificationStatus = status
	return nil
}

func (r *fakeDrawEntryRepo) MarkPaid(_ context.Context, id primitive.ObjectID, reference string, paidAt time.Time) (bool, error) {
	entry, ok := r.entries[id]
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	if entry.IsPaid {
		return false, nil
	}
	entry.IsPaid = true
	entry.PaymentReference = reference
	entry.PaidAt = paidAt
	return true, nil
}

func (r *fakeDrawEntryRepo) UnmarkPaid(_ context.Context, id primitive.ObjectID) error {
	entry, ok := r.entries[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	entry.IsPaid = false
	entry.PaymentReference = ""
	entry.PaidAt = time.Time{}
	return nil
}

type fakeDonationRepo struct {
	donations map[primitive.ObjectID]*models.Donation
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{donations: make(map[primitive.ObjectID]*models.Donation)}
}

func (r *fakeDonationRepo) Create(_ context.Context, donation *models.Donation) error {
	if donation.ID.IsZero() {
		donation.ID = primitive.NewObjectID()
	}
	r.donations[donation.ID] = donation
	return nil
}

func (r *fakeDonationRepo) CreateMany(ctx context.Context, donations []*models.Donation) error {
	for _, d := range donations {
		if err := r.Create(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeDonationRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Donation, error) {
	donation, ok := r.donations[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return donation, nil
}

func (r *fakeDonationRepo) FindByDrawID(_ context.Context, drawID primitive.ObjectID) ([]*models.Donation, error) {
	found := make([]*models.Donation, 0)
	for _, d := range r.donations {
		if d.DrawID == drawID {
			found = append(found, d)
		}
	}
	return found, nil
}

func (r *fakeDonationRepo) FindPayableByCharity(_ context.Context, charityID primitive.ObjectID) ([]*models.Donation, error) {
	found := make([]*models.Donation, 0)
	for _, d := range r.donations {
		if d.CharityID == charityID && d.Status == models.DonationPending && d.CharityPayoutID.IsZero() {
			found = append(found, d)
		}
	}
	return found, nil
}

func (r *fakeDonationRepo) FindByPayoutID(_ context.Context, payoutID primitive.ObjectID) ([]*models.Donation, error) {
	found := make([]*models.Donation, 0)
	for _, d := range r.donations {
		if d.CharityPayoutID == payoutID {
			found = append(found, d)
		}
	}
	return found, nil
}

func (r *fakeDonationRepo) DeleteByDrawID(_ context.Context, drawID primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, d := range r.donations {
		if d.DrawID == drawID {
			delete(r.donations, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeDonationRepo) LinkToPayout(_ context.Context, donationIDs []primitive.ObjectID, payoutID primitive.ObjectID) error {
	for _, id := range donationIDs {
		if d, ok := r.donations[id]; ok {
			d.CharityPayoutID = payoutID
			d.Status = models.DonationProcessing
		}
	}
	return nil
}

func (r *fakeDonationRepo) UnlinkPayout(_ context.Context, payoutID primitive.ObjectID) error {
	for _, d := range r.donations {
		if d.CharityPayoutID == payoutID {
			d.CharityPayoutID = primitive.NilObjectID
			d.Status = models.DonationPending
		}
	}
	return nil
}

func (r *fakeDonationRepo) UpdateStatusByPayout(_ context.Context, payoutID primitive.ObjectID, status string) error {
	for _, d := range r.donations {
		if d.CharityPayoutID == payoutID {
			d.Status = status
		}
	}
	return nil
}

type fakeJackpotRepo struct {
	tracker models.JackpotTracker
}

func newFakeJackpotRepo(amount float64) *fakeJackpotRepo {
	return &fakeJackpotRepo{tracker: models.JackpotTracker{
		ID:     primitive.NewObjectID(),
		Amount: amount,
	}}
}

func (r *fakeJackpotRepo) Get(_ context.Context) (*models.JackpotTracker, error) {
	copied := r.tracker
	return &copied, nil
}

func (r *fakeJackpotRepo) Set(_ context.Context, amount float64, lastDrawID primitive.ObjectID, expectedVersion int64) error {
	if r.tracker.Version != expectedVersion {
		return models.ErrVersionConflict
	}
	r.tracker.Amount = amount
	r.tracker.LastDrawID = lastDrawID
	r.tracker.Version++
	r.tracker.LastUpdated = time.Now()
	return nil
}

type fakeCharityRepo struct {
	charities map[primitive.ObjectID]*models.Charity
}

func newFakeCharityRepo() *fakeCharityRepo {
	return &fakeCharityRepo{charities: make(map[primitive.ObjectID]*models.Charity)}
}

func (r *fakeCharityRepo) Create(_ context.Context, charity *models.Charity) error {
	if charity.ID.IsZero() {
		charity.ID = primitive.NewObjectID()
	}
	r.charities[charity.ID] = charity
	return nil
}

func (r *fakeCharityRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Charity, error) {
	charity, ok := r.charities[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return charity, nil
}

func (r *fakeCharityRepo) FindAll(_ context.Context) ([]*models.Charity, error) {
	all := make([]*models.Charity, 0, len(r.charities))
	for _, c := range r.charities {
		all = append(all, c)
	}
	return all, nil
}

func (r *fakeCharityRepo) FindVerified(_ context.Context) ([]*models.Charity, error) {
	found := make([]*models.Charity, 0)
	for _, c := range r.charities {
		if c.Verified {
			found = append(found, c)
		}
	}
	return found, nil
}

func (r *fakeCharityRepo) Update(_ context.Context, charity *models.Charity) error {
	r.charities[charity.ID] = charity
	return nil
}

func (r *fakeCharityRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.charities, id)
	return nil
}

type fakeCharityPayoutRepo struct {
	payouts map[primitive.ObjectID]*models.CharityPayout
}

func newFakeCharityPayoutRepo() *fakeCharityPayoutRepo {
	return &fakeCharityPayoutRepo{payouts: make(map[primitive.ObjectID]*models.CharityPayout)}
}

func (r *fakeCharityPayoutRepo) Create(_ context.Context, payout *models.CharityPayout) error {
	if payout.ID.IsZero() {
		payout.ID = primitive.NewObjectID()
	}
	r.payouts[payout.ID] = payout
	return nil
}

func (r *fakeCharityPayoutRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.CharityPayout, error) {
	payout, ok := r.payouts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return payout, nil
}

func (r *fakeCharityPayoutRepo) FindByCharityID(_ context.Context, charityID primitive.ObjectID) ([]*models.CharityPayout, error) {
	found := make([]*models.CharityPayout, 0)
	for _, p := range r.payouts {
		if p.CharityID == charityID {
			found = append(found, p)
		}
	}
	return found, nil
}

func (r *fakeCharityPayoutRepo) Update(_ context.Context, payout *models.CharityPayout) error {
	r.payouts[payout.ID] = payout
	return nil
}

func (r *fakeCharityPayoutRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.payouts, id)
	return nil
}

type fakeSettingsRepo struct {
	settings *models.DrawSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo { return &fakeSettingsRepo{} }

func (r *fakeSettingsRepo) GetSettings(_ context.Context) (*models.DrawSettings, error) {
	if r.settings == nil {
		return models.DefaultDrawSettings(), nil
	}
	return r.settings, nil
}

func (r *fakeSettingsRepo) UpdateSettings(_ context.Context, settings *models.DrawSettings) error {
	r.settings = settings
	return nil
}

type fakeAuditRepo struct {
	events []*models.AuditEvent
}

func newFakeAuditRepo() *fakeAuditRepo { return &fakeAuditRepo{} }

func (r *fakeAuditRepo) Create(_ context.Context, event *models.AuditEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeAuditRepo) FindRecent(_ context.Context, limit int) ([]*models.AuditEvent, error) {
	if len(r.events) <= limit {
		return r.events, nil
	}
	return r.events[len(r.events)-limit:], nil
}

type fakeNotifier struct {
	notified []string
}

func (n *fakeNotifier) NotifyWinner(_ context.Context, email string, _ float64, _ string) error {
	n.notified = append(n.notified, email)
	return nil
}
