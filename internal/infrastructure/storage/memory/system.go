package memory

import (
	"context"
	"time"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/numerator"
	"essenceflow/internal/domain/auth"
	"essenceflow/internal/domain/settings"
)

// --- Users ---

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	store *Store
}

var _ auth.UserRepository = (*UserRepo)(nil)

// Users returns the user repository.
func (s *Store) Users() *UserRepo {
	return &UserRepo{store: s}
}

func findUser(d *dataset, email string) *auth.User {
	for _, u := range d.users.rows {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	return r.store.do(ctx, func(d *dataset) error {
		if findUser(d, user.Email) != nil {
			return apperror.NewDuplicate("User", "email", user.Email)
		}
		return d.users.insert(user.ID.Raw(), user)
	})
}

func (r *UserRepo) GetByID(ctx context.Context, userID auth.UserID) (*auth.User, error) {
	var out *auth.User
	err := r.store.do(ctx, func(d *dataset) error {
		var err error
		out, err = d.users.get(userID.Raw())
		return err
	})
	return out, err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	var out *auth.User
	err := r.store.do(ctx, func(d *dataset) error {
		u := findUser(d, email)
		if u == nil {
			return apperror.NewNotFound("User", email)
		}
		out = cloneUser(u)
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	return r.store.do(ctx, func(d *dataset) error {
		stored, err := d.users.ref(user.ID.Raw())
		if err != nil {
			return err
		}
		if err := checkVersion("User", user.ID.Raw(), stored.Version, user.Version); err != nil {
			return err
		}
		user.Version++
		user.Touch()
		d.users.put(user.ID.Raw(), user)
		return nil
	})
}

func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	var found bool
	err := r.store.do(ctx, func(d *dataset) error {
		found = findUser(d, email) != nil
		return nil
	})
	return found, err
}

// --- Settings ---

// SettingsRepo implements settings.Repository.
type SettingsRepo struct {
	store *Store
}

var _ settings.Repository = (*SettingsRepo)(nil)

// Settings returns the business settings repository.
func (s *Store) Settings() *SettingsRepo {
	return &SettingsRepo{store: s}
}

func (r *SettingsRepo) Get(ctx context.Context) (*settings.BusinessSettings, error) {
	var out *settings.BusinessSettings
	err := r.store.do(ctx, func(d *dataset) error {
		if d.settings == nil {
			return apperror.NewNotFound("Settings", "business")
		}
		out = cloneSettings(d.settings)
		return nil
	})
	return out, err
}

func (r *SettingsRepo) Save(ctx context.Context, s *settings.BusinessSettings) error {
	return r.store.do(ctx, func(d *dataset) error {
		d.settings = cloneSettings(s)
		return nil
	})
}

// --- Numbering ---

// Numerator implements numerator.Generator with per-key counters. Both
// strategies behave as Strict: counters roll back with the transaction.
type Numerator struct {
	store *Store
}

var _ numerator.Generator = (*Numerator)(nil)

// Numerator returns the document number generator.
func (s *Store) Numerator() *Numerator {
	return &Numerator{store: s}
}

func (n *Numerator) GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
	var next int64
	err := n.store.do(ctx, func(d *dataset) error {
		key := cfg.Key(period)
		d.sequences[key]++
		next = d.sequences[key]
		return nil
	})
	if err != nil {
		return "", err
	}
	return cfg.Format(period, next), nil
}

func (n *Numerator) SetNextNumber(ctx context.Context, cfg numerator.Config, period time.Time, value int64) error {
	return n.store.do(ctx, func(d *dataset) error {
		d.sequences[cfg.Key(period)] = value
		return nil
	})
}
