package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// UsersStore is the Bun backed UserStore. It owns password hashing and
// relies on the unique indexes on email and username as the final word on
// duplicates; the engine's pre-check only improves error reporting.
type UsersStore struct {
	db   *bun.DB
	repo repository.Repository[*User]
}

var _ UserStore = (*UsersStore)(nil)

// NewUsersStore returns a store over the given Bun database handle.
func NewUsersStore(db *bun.DB) *UsersStore {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	return &UsersStore{
		db:   db,
		repo: repo,
	}
}

func (s *UsersStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findByColumn(ctx, "email", email)
}

func (s *UsersStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findByColumn(ctx, "username", username)
}

func (s *UsersStore) findByColumn(ctx context.Context, column, value string) (*User, error) {
	record := &User{}

	err := s.db.NewSelect().
		Model(record).
		Where(fmt.Sprintf("?TableAlias.%s = ?", column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return record, nil
}

// Create hashes the raw password and persists the record. A unique-key
// rejection comes back as ErrDuplicateEmail or ErrDuplicateUserName so the
// engine can fold it into the registration error list.
func (s *UsersStore) Create(ctx context.Context, user *User, rawPassword string) (*User, error) {
	hash, err := HashPassword(rawPassword)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
	}

	user.PasswordHash = hash
	prepareUserDefaults(user)

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if dup := classifyUniqueViolation(err); dup != nil {
			return nil, dup
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}

	return created, nil
}

// CheckPassword reports whether the raw password matches the stored hash.
// A mismatch is not an error; only infrastructure failures are.
func (s *UsersStore) CheckPassword(ctx context.Context, user *User, rawPassword string) (bool, error) {
	if user == nil || rawPassword == "" {
		return false, nil
	}

	if err := ComparePasswordAndHash(rawPassword, user.PasswordHash); err != nil {
		if goerrors.Is(err, ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (s *UsersStore) Update(ctx context.Context, user *User) error {
	if user == nil || user.ID == uuid.Nil {
		return goerrors.New("cannot update user without id", goerrors.CategoryBadInput)
	}

	_, err := s.repo.Update(ctx, user, repository.UpdateByID(user.ID.String()))
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not update user")
	}

	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	record.EnsureInitials()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

// classifyUniqueViolation maps driver-level unique-index rejections to the
// duplicate sentinels. Postgres reports SQLSTATE 23505 with the constraint
// name; the SQLite test dialect reports the column in the message.
func classifyUniqueViolation(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var pgErr pgdriver.Error
	if stderrors.As(err, &pgErr) && pgErr.Field('C') == pgerrcode.UniqueViolation {
		if strings.Contains(pgErr.Field('n'), "username") {
			return ErrDuplicateUserName
		}
		return ErrDuplicateEmail
	}

	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		if strings.Contains(msg, "username") {
			return ErrDuplicateUserName
		}
		return ErrDuplicateEmail
	}

	return nil
}
