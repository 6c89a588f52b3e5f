package local

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"coachpack/internal/domain"
	"coachpack/internal/repository"
)

// Key prefixes. One document per (feature, user).
const (
	userKeyPrefix   = "user-"
	emailKeyPrefix  = "useremail-"
	goalsKeyPrefix  = "goals-"
	eventsKeyPrefix = "events-"
	wheelKeyPrefix  = "wheel-"
	valuesKeyPrefix = "values-"
	visionKeyPrefix = "vision-"
)

// BSON requires a document at the top level, so list- and scalar-valued
// records get a one-field wrapper.
type eventListDoc struct {
	Events []domain.CalendarEvent `bson:"events"`
}

type emailIndexDoc struct {
	UserID string `bson:"userId"`
}

// --- users ---

type localUserRepository struct {
	store *Store
}

// NewUserRepository creates a user repository over the local store.
func NewUserRepository(store *Store) repository.UserRepository {
	return &localUserRepository{store: store}
}

func (r *localUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.has(emailKeyPrefix + user.Email) {
		return primitive.NilObjectID, errors.New("user with this email already exists")
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.SignupDate.IsZero() {
		user.SignupDate = now
	}
	if user.Plan == "" {
		user.Plan = domain.PlanFree
	}

	if err := r.store.writeDoc(userKeyPrefix+user.ID.Hex(), user); err != nil {
		return primitive.NilObjectID, err
	}
	if err := r.store.writeDoc(emailKeyPrefix+user.Email, emailIndexDoc{UserID: user.ID.Hex()}); err != nil {
		return primitive.NilObjectID, err
	}
	return user.ID, nil
}

func (r *localUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var idx emailIndexDoc
	if err := r.store.readDoc(emailKeyPrefix+email, &idx); err != nil {
		return nil, repository.ErrNotFound
	}
	var user domain.User
	if err := r.store.readDoc(userKeyPrefix+idx.UserID, &user); err != nil {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *localUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var user domain.User
	if err := r.store.readDoc(userKeyPrefix+id.Hex(), &user); err != nil {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *localUserRepository) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	for key := range r.store.d.KeysPrefix(userKeyPrefix, ctx.Done()) {
		var user domain.User
		if err := r.store.readDoc(key, &user); err != nil {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *localUserRepository) SetPlan(ctx context.Context, id primitive.ObjectID, plan domain.PlanType) error {
	return r.mutate(ctx, id, func(u *domain.User) { u.Plan = plan })
}

func (r *localUserRepository) SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error {
	return r.mutate(ctx, id, func(u *domain.User) { u.Verified = verified })
}

func (r *localUserRepository) mutate(ctx context.Context, id primitive.ObjectID, fn func(*domain.User)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	fn(user)
	user.UpdatedAt = time.Now().UTC()
	return r.store.writeDoc(userKeyPrefix+id.Hex(), user)
}

// --- goals ---

type localGoalRepository struct {
	store *Store
}

// NewGoalRepository creates a goal repository over the local store.
func NewGoalRepository(store *Store) repository.GoalRepository {
	return &localGoalRepository{store: store}
}

func (r *localGoalRepository) Get(ctx context.Context, userID string) (*domain.GoalSet, error) {
	var set domain.GoalSet
	if err := r.store.readDoc(goalsKeyPrefix+userID, &set); err != nil {
		return nil, err
	}
	if set.Goals == nil {
		set.Goals = map[domain.Category]domain.Goal{}
	}
	for c, g := range set.Goals {
		g.Normalize()
		set.Goals[c] = g
	}
	return &set, nil
}

func (r *localGoalRepository) Upsert(ctx context.Context, userID string, goals domain.GoalSet) error {
	return r.store.writeDoc(goalsKeyPrefix+userID, goals)
}

// --- events ---

// localEventRepository keeps a user's events as a single list document
// and rewrites it on every mutation, mirroring the in-memory list
// semantics of the calendar store.
type localEventRepository struct {
	store *Store
}

// NewEventRepository creates an event repository over the local store.
func NewEventRepository(store *Store) repository.EventRepository {
	return &localEventRepository{store: store}
}

func (r *localEventRepository) ListByUser(ctx context.Context, userID string) ([]domain.CalendarEvent, error) {
	var doc eventListDoc
	if err := r.store.readDoc(eventsKeyPrefix+userID, &doc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.CalendarEvent{}, nil
		}
		return nil, err
	}
	if doc.Events == nil {
		doc.Events = []domain.CalendarEvent{}
	}
	return doc.Events, nil
}

func (r *localEventRepository) GetByID(ctx context.Context, userID, eventID string) (*domain.CalendarEvent, error) {
	events, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].ID == eventID {
			return &events[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *localEventRepository) Insert(ctx context.Context, event *domain.CalendarEvent) error {
	if event.ID == "" || event.UserID == "" {
		return errors.New("event id and user id are required")
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	events, err := r.ListByUser(ctx, event.UserID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	events = append(events, *event)
	return r.store.writeDoc(eventsKeyPrefix+event.UserID, eventListDoc{Events: events})
}

func (r *localEventRepository) Update(ctx context.Context, event *domain.CalendarEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	events, err := r.ListByUser(ctx, event.UserID)
	if err != nil {
		return err
	}
	for i := range events {
		if events[i].ID == event.ID {
			event.UpdatedAt = time.Now().UTC()
			events[i] = *event
			return r.store.writeDoc(eventsKeyPrefix+event.UserID, eventListDoc{Events: events})
		}
	}
	return repository.ErrNotFound
}

func (r *localEventRepository) Delete(ctx context.Context, userID, eventID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	events, err := r.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	kept := events[:0]
	for _, e := range events {
		if e.ID != eventID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(events) {
		return repository.ErrNotFound
	}
	return r.store.writeDoc(eventsKeyPrefix+userID, eventListDoc{Events: kept})
}

// --- wheel / values / vision ---

type localWheelRepository struct {
	store *Store
}

// NewWheelRepository creates a wheel repository over the local store.
func NewWheelRepository(store *Store) repository.WheelRepository {
	return &localWheelRepository{store: store}
}

func (r *localWheelRepository) Get(ctx context.Context, userID string) (*domain.WheelData, error) {
	var data domain.WheelData
	if err := r.store.readDoc(wheelKeyPrefix+userID, &data); err != nil {
		return nil, err
	}
	return data.Normalize(), nil
}

func (r *localWheelRepository) Upsert(ctx context.Context, userID string, data domain.WheelData) error {
	return r.store.writeDoc(wheelKeyPrefix+userID, data)
}

type localValuesRepository struct {
	store *Store
}

// NewValuesRepository creates a values repository over the local store.
func NewValuesRepository(store *Store) repository.ValuesRepository {
	return &localValuesRepository{store: store}
}

func (r *localValuesRepository) Get(ctx context.Context, userID string) (*domain.ValuesData, error) {
	var data domain.ValuesData
	if err := r.store.readDoc(valuesKeyPrefix+userID, &data); err != nil {
		return nil, err
	}
	return data.Normalize(), nil
}

func (r *localValuesRepository) Upsert(ctx context.Context, userID string, data domain.ValuesData) error {
	return r.store.writeDoc(valuesKeyPrefix+userID, data)
}

type localVisionRepository struct {
	store *Store
}

// NewVisionRepository creates a vision repository over the local store.
func NewVisionRepository(store *Store) repository.VisionRepository {
	return &localVisionRepository{store: store}
}

func (r *localVisionRepository) Get(ctx context.Context, userID string) (*domain.VisionBoard, error) {
	var board domain.VisionBoard
	if err := r.store.readDoc(visionKeyPrefix+userID, &board); err != nil {
		return nil, err
	}
	return board.Normalize(), nil
}

func (r *localVisionRepository) Upsert(ctx context.Context, userID string, board domain.VisionBoard) error {
	return r.store.writeDoc(visionKeyPrefix+userID, board)
}
