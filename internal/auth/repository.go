package auth

import (
	"context"
	"errors"
	"strings"

	"SchoolCMS/internal/docstore"
)

type AdminRepository struct {
	store docstore.Store
}

func NewAdminRepository(store docstore.Store) *AdminRepository {
	return &AdminRepository{store: store}
}

// normalizeEmail is the form emails are keyed and compared in.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail returns nil, nil when no admin has that email.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	doc, err := r.store.Get(ctx, AdminsCollection, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &Admin{
		Email:        doc.String("email"),
		Name:         doc.String("name"),
		PasswordHash: doc.String("password_hash"),
		CreatedAt:    doc.Time("created_at"),
	}, nil
}

// Save creates the admin or overwrites its name and password. created_at is
// only stamped on the first save.
func (r *AdminRepository) Save(ctx context.Context, admin *Admin, isNew bool) error {
	email := normalizeEmail(admin.Email)
	fields := docstore.Fields{
		"email":         email,
		"name":          admin.Name,
		"password_hash": admin.PasswordHash,
	}
	if isNew {
		fields["created_at"] = docstore.ServerTimestamp
	}
	return r.store.UpsertMerge(ctx, AdminsCollection, email, fields)
}
