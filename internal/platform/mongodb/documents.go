package mongodb

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
)

type userDocument struct {
	ID             string    `bson:"_id"`
	Email          string    `bson:"email"`
	DisplayName    string    `bson:"display_name,omitempty"`
	HashedPassword string    `bson:"hashed_password"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

type labelDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Name      string    `bson:"name"`
	Color     string    `bson:"color"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type taskDocument struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Status      string    `bson:"status"`
	Priority    string    `bson:"priority"`
	Deadline    time.Time `bson:"deadline"`
	LabelIDs    []string  `bson:"label_ids"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func newUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:             u.ID.String(),
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		HashedPassword: u.HashedPassword,
		CreatedAt:      u.CreatedAt.UTC(),
		UpdatedAt:      u.UpdatedAt.UTC(),
	}
}

func (d userDocument) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errCorruptDocument(UsersCollection, d.ID, err)
	}
	return &domain.User{
		ID:             id,
		Email:          d.Email,
		DisplayName:    d.DisplayName,
		HashedPassword: d.HashedPassword,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}, nil
}

func newLabelDocument(l *domain.Label) labelDocument {
	return labelDocument{
		ID:        l.ID.String(),
		UserID:    l.UserID.String(),
		Name:      l.Name,
		Color:     l.Color,
		CreatedAt: l.CreatedAt.UTC(),
		UpdatedAt: l.UpdatedAt.UTC(),
	}
}

func (d labelDocument) toDomain() (*domain.Label, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errCorruptDocument(LabelsCollection, d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, errCorruptDocument(LabelsCollection, d.ID, err)
	}
	return &domain.Label{
		ID:        id,
		UserID:    userID,
		Name:      d.Name,
		Color:     d.Color,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

func newTaskDocument(t *domain.Task) taskDocument {
	return taskDocument{
		ID:          t.ID.String(),
		UserID:      t.UserID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Deadline:    t.Deadline.UTC(),
		LabelIDs:    idStrings(t.LabelIDs),
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func (d taskDocument) toDomain() (*domain.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errCorruptDocument(TasksCollection, d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, errCorruptDocument(TasksCollection, d.ID, err)
	}
	labelIDs := make([]uuid.UUID, 0, len(d.LabelIDs))
	for _, raw := range d.LabelIDs {
		labelID, err := uuid.Parse(raw)
		if err != nil {
			return nil, errCorruptDocument(TasksCollection, d.ID, err)
		}
		labelIDs = append(labelIDs, labelID)
	}
	return &domain.Task{
		ID:          id,
		UserID:      userID,
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.TaskStatus(d.Status),
		Priority:    domain.TaskPriority(d.Priority),
		Deadline:    d.Deadline.UTC(),
		LabelIDs:    labelIDs,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}

// idStrings never returns nil so label_ids is always stored as an array.
func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
