package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"solvehub/internal/common"
	"solvehub/internal/domain/model"
	"solvehub/internal/domain/repository"
)

// In-memory fakes for the repository interfaces. Only the behavior the tests
// rely on is implemented; unused methods return zero values.

type fakeUserRepo struct {
	users     map[string]*model.User
	createErr error
	findErr   error
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return common.ErrConflict
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id, displayName, avatarURL string) error {
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.DisplayName, u.AvatarURL = displayName, avatarURL
	return nil
}

func (r *fakeUserRepo) UpdatePreferences(ctx context.Context, id string, prefs model.NotificationPreferences) error {
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	if prefs.ReplyToExercise != nil {
		u.Preferences.ReplyToExercise = prefs.ReplyToExercise
	}
	if prefs.ReplyToComment != nil {
		u.Preferences.ReplyToComment = prefs.ReplyToComment
	}
	if prefs.LikeOnExercise != nil {
		u.Preferences.LikeOnExercise = prefs.LikeOnExercise
	}
	return nil
}

func (r *fakeUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (r *fakeUserRepo) SaveExercise(ctx context.Context, userID, exerciseID string) error   { return nil }
func (r *fakeUserRepo) UnsaveExercise(ctx context.Context, userID, exerciseID string) error { return nil }
func (r *fakeUserRepo) CompleteExercise(ctx context.Context, userID, exerciseID string) error {
	return nil
}
func (r *fakeUserRepo) UncompleteExercise(ctx context.Context, userID, exerciseID string) error {
	return nil
}
func (r *fakeUserRepo) ListSavedExerciseIDs(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}
func (r *fakeUserRepo) ListCompletedExerciseIDs(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}

type fakeNotificationRepo struct {
	notifications []*model.Notification
	createErr     error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) UnreadCount(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

type fakePublisher struct {
	published  []string // recipient user ids, in publish order
	publishErr error
}

func (p *fakePublisher) Publish(ctx context.Context, userID string, payload interface{}) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.published = append(p.published, userID)
	return nil
}

type fakeSubjectRepo struct {
	byName    map[string]*model.Subject
	findCalls int
	createErr error
}

func newFakeSubjectRepo(subjects ...*model.Subject) *fakeSubjectRepo {
	r := &fakeSubjectRepo{byName: map[string]*model.Subject{}}
	for _, s := range subjects {
		r.byName[s.Name] = s
	}
	return r
}

func (r *fakeSubjectRepo) Create(ctx context.Context, s *model.Subject) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byName[s.Name]; ok {
		return common.ErrConflict
	}
	r.byName[s.Name] = s
	return nil
}

func (r *fakeSubjectRepo) FindByName(ctx context.Context, name string) (*model.Subject, error) {
	r.findCalls++
	if s, ok := r.byName[name]; ok {
		return s, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeSubjectRepo) FindByID(ctx context.Context, id string) (*model.Subject, error) {
	for _, s := range r.byName {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeSubjectRepo) FindBySlug(ctx context.Context, slug string) (*model.Subject, error) {
	for _, s := range r.byName {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeSubjectRepo) List(ctx context.Context, popularOnly bool) ([]model.Subject, error) {
	var out []model.Subject
	for _, s := range r.byName {
		if !popularOnly || s.IsPopular {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSubjectRepo) SetPopular(ctx context.Context, id string, popular bool) error {
	for _, s := range r.byName {
		if s.ID == id {
			s.IsPopular = popular
			return nil
		}
	}
	return common.ErrNotFound
}

type fakeExerciseRepo struct {
	exercises map[string]*model.Exercise
	votes     map[string]map[string]bool // exerciseID -> userID -> isLike
	findCalls int
}

func newFakeExerciseRepo(exercises ...*model.Exercise) *fakeExerciseRepo {
	r := &fakeExerciseRepo{
		exercises: map[string]*model.Exercise{},
		votes:     map[string]map[string]bool{},
	}
	for _, e := range exercises {
		r.exercises[e.ID] = e
	}
	return r
}

func (r *fakeExerciseRepo) Create(ctx context.Context, tx *sql.Tx, e *model.Exercise) error {
	r.exercises[e.ID] = e
	return nil
}

func (r *fakeExerciseRepo) FindByID(ctx context.Context, id string) (*model.Exercise, error) {
	r.findCalls++
	if e, ok := r.exercises[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeExerciseRepo) List(ctx context.Context, limit, offset int, filter repository.ExerciseFilter) ([]model.Exercise, int, error) {
	return nil, 0, nil
}

func (r *fakeExerciseRepo) SetVote(ctx context.Context, exerciseID, userID string, isLike bool) error {
	if r.votes[exerciseID] == nil {
		r.votes[exerciseID] = map[string]bool{}
	}
	r.votes[exerciseID][userID] = isLike
	return nil
}

func (r *fakeExerciseRepo) ClearVote(ctx context.Context, exerciseID, userID string) error {
	delete(r.votes[exerciseID], userID)
	return nil
}

func (r *fakeExerciseRepo) GetVote(ctx context.Context, exerciseID, userID string) (*bool, error) {
	if v, ok := r.votes[exerciseID][userID]; ok {
		return &v, nil
	}
	return nil, nil
}

func (r *fakeExerciseRepo) IncrementAnswerCount(ctx context.Context, tx *sql.Tx, exerciseID string) error {
	if e, ok := r.exercises[exerciseID]; ok {
		e.AnswerCount++
	}
	return nil
}

func (r *fakeExerciseRepo) AddTags(ctx context.Context, tx *sql.Tx, exerciseID string, tagIDs []string) error {
	return nil
}

func (r *fakeExerciseRepo) GetTagsByExerciseID(ctx context.Context, exerciseID string) ([]model.Tag, error) {
	return nil, nil
}

func (r *fakeExerciseRepo) ListMissingSubjectID(ctx context.Context, limit int) ([]model.Exercise, error) {
	var out []model.Exercise
	for _, e := range r.exercises {
		if e.SubjectID == nil && e.SubjectName != "" {
			out = append(out, *e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeExerciseRepo) SetSubjectID(ctx context.Context, exerciseID, subjectID string) error {
	e, ok := r.exercises[exerciseID]
	if !ok {
		return common.ErrNotFound
	}
	e.SubjectID = &subjectID
	return nil
}

type fakeAnswerRepo struct {
	answers map[string]*model.Answer
}

func newFakeAnswerRepo(answers ...*model.Answer) *fakeAnswerRepo {
	r := &fakeAnswerRepo{answers: map[string]*model.Answer{}}
	for _, a := range answers {
		r.answers[a.ID] = a
	}
	return r
}

func (r *fakeAnswerRepo) Create(ctx context.Context, tx *sql.Tx, a *model.Answer) error {
	r.answers[a.ID] = a
	return nil
}

func (r *fakeAnswerRepo) FindByID(ctx context.Context, id string) (*model.Answer, error) {
	if a, ok := r.answers[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeAnswerRepo) ListByExerciseID(ctx context.Context, exerciseID string, order repository.AnswerOrder) ([]model.Answer, error) {
	var out []model.Answer
	for _, a := range r.answers {
		if a.ExerciseID == exerciseID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAnswerRepo) SetVote(ctx context.Context, answerID, userID string, isLike bool) error {
	return nil
}
func (r *fakeAnswerRepo) ClearVote(ctx context.Context, answerID, userID string) error { return nil }
func (r *fakeAnswerRepo) GetVote(ctx context.Context, answerID, userID string) (*bool, error) {
	return nil, nil
}

type fakeAttachmentRepo struct {
	attachments []*model.Attachment
}

func (r *fakeAttachmentRepo) Create(ctx context.Context, tx *sql.Tx, a *model.Attachment) error {
	r.attachments = append(r.attachments, a)
	return nil
}

func (r *fakeAttachmentRepo) ListByExerciseID(ctx context.Context, exerciseID string) ([]model.Attachment, error) {
	return nil, nil
}
func (r *fakeAttachmentRepo) ListByAnswerID(ctx context.Context, answerID string) ([]model.Attachment, error) {
	return nil, nil
}
func (r *fakeAttachmentRepo) ListLocalLegacy(ctx context.Context, limit int) ([]model.Attachment, error) {
	return nil, nil
}
func (r *fakeAttachmentRepo) MarkHosted(ctx context.Context, id, publicID, url string, sizeBytes int64) error {
	return nil
}

type fakeTagRepo struct {
	tags map[string]*model.Tag
}

func newFakeTagRepo() *fakeTagRepo { return &fakeTagRepo{tags: map[string]*model.Tag{}} }

func (r *fakeTagRepo) FindByName(ctx context.Context, tx *sql.Tx, name string) (*model.Tag, error) {
	if t, ok := r.tags[name]; ok {
		return t, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeTagRepo) Create(ctx context.Context, tx *sql.Tx, tag *model.Tag) error {
	r.tags[tag.Name] = tag
	return nil
}

func (r *fakeTagRepo) FindOrCreate(ctx context.Context, tx *sql.Tx, name string) (*model.Tag, error) {
	if t, ok := r.tags[name]; ok {
		return t, nil
	}
	t := &model.Tag{ID: name + "-id", Name: name}
	r.tags[name] = t
	return t, nil
}

func (r *fakeTagRepo) List(ctx context.Context) ([]model.Tag, error) { return nil, nil }

// reportRepoRecorder records Create calls so tests can assert that rejected
// intakes never reach persistence.
type reportRepoRecorder struct {
	created []*model.Report
}

func (r *reportRepoRecorder) Create(ctx context.Context, report *model.Report) error {
	r.created = append(r.created, report)
	return nil
}

func (r *reportRepoRecorder) FindByID(ctx context.Context, id string) (*model.Report, error) {
	for _, rep := range r.created {
		if rep.ID == id {
			return rep, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *reportRepoRecorder) ListByStatus(ctx context.Context, status model.ReportStatus, limit, offset int) ([]model.Report, int, error) {
	var out []model.Report
	for _, rep := range r.created {
		if status == "" || rep.Status == status {
			out = append(out, *rep)
		}
	}
	return out, len(out), nil
}

func (r *reportRepoRecorder) UpdateStatus(ctx context.Context, id string, status model.ReportStatus) error {
	for _, rep := range r.created {
		if rep.ID == id {
			rep.Status = status
			return nil
		}
	}
	return common.ErrNotFound
}

// stubDB returns a *sql.DB whose transactions are no-ops, for services that
// open a transaction around calls into fake repositories.
type stubDriver struct{}
type stubConn struct{}
type stubTx struct{}

func (stubDriver) Open(name string) (driver.Conn, error) { return stubConn{}, nil }

func (stubConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("stub driver does not prepare statements")
}
func (stubConn) Close() error              { return nil }
func (stubConn) Begin() (driver.Tx, error) { return stubTx{}, nil }

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func init() {
	sql.Register("servicetest-stub", stubDriver{})
}

func stubDB() *sql.DB {
	db, err := sql.Open("servicetest-stub", "")
	if err != nil {
		panic(err)
	}
	return db
}
