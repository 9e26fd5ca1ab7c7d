// Package seed loads starter data from a YAML file. Every record is keyed by
// a natural key (email, club name, resource name, event title) so applying
// the same file twice changes nothing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	bookingDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/booking"
	clubDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/club"
	eventDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/event"
	resourceDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/resource"
	userDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/user"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type User struct {
	Email        string       `yaml:"email"`
	Name         string       `yaml:"name"`
	Password     string       `yaml:"password"`
	GlobalRole   string       `yaml:"global_role"`
	Department   *string      `yaml:"department"`
	AcademicYear *int         `yaml:"academic_year"`
	Memberships  []Membership `yaml:"memberships"`
}

type Membership struct {
	Club string `yaml:"club"`
	Role string `yaml:"role"`
}

type Club struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type Resource struct {
	Name             string `yaml:"name"`
	Type             string `yaml:"type"`
	Capacity         *int   `yaml:"capacity"`
	RequiresApproval bool   `yaml:"requires_approval"`
	AutoApprove      bool   `yaml:"auto_approve"`
}

type Event struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Category    *string  `yaml:"category"`
	Venue       *string  `yaml:"venue"`
	CreatedBy   string   `yaml:"created_by"`
	Clubs       []string `yaml:"clubs"`
	Status      string   `yaml:"status"`
	// StartsIn is relative to the time the seed runs so demo events stay in
	// the future.
	StartsIn time.Duration `yaml:"starts_in"`
	Duration time.Duration `yaml:"duration"`
	Bookings []string      `yaml:"bookings"`
}

// Demo is only applied when asked for.
type Demo struct {
	Users     []User     `yaml:"users"`
	Clubs     []Club     `yaml:"clubs"`
	Resources []Resource `yaml:"resources"`
	Events    []Event    `yaml:"events"`
}

type Data struct {
	Users []User `yaml:"users"`
	Clubs []Club `yaml:"clubs"`
	Demo  Demo   `yaml:"demo"`
}

func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, pkgerrors.Wrap(err, "parse seed file")
	}
	return &d, nil
}

type Options struct {
	Demo       bool
	BCryptCost int
	Now        func() time.Time
}

// Seeder writes Data in one transaction.
type Seeder struct {
	db     *gorm.DB
	opts   Options
	logger *slog.Logger
}

func New(db *gorm.DB, opts Options, logger *slog.Logger) *Seeder {
	if opts.BCryptCost == 0 {
		opts.BCryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Seeder{db: db, opts: opts, logger: logger}
}

func (s *Seeder) Apply(ctx context.Context, d *Data) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clubs := append([]Club{}, d.Clubs...)
		users := append([]User{}, d.Users...)
		if s.opts.Demo {
			clubs = append(clubs, d.Demo.Clubs...)
			users = append(users, d.Demo.Users...)
		}

		clubIDs := map[string]string{}
		for _, c := range clubs {
			id, err := s.club(tx, c)
			if err != nil {
				return err
			}
			clubIDs[c.Name] = id
		}

		userIDs := map[string]string{}
		for _, u := range users {
			id, err := s.user(tx, u, clubIDs)
			if err != nil {
				return err
			}
			userIDs[u.Email] = id
		}

		if !s.opts.Demo {
			return nil
		}

		resourceIDs := map[string]string{}
		for _, r := range d.Demo.Resources {
			id, err := s.resource(tx, r)
			if err != nil {
				return err
			}
			resourceIDs[r.Name] = id
		}
		for _, e := range d.Demo.Events {
			if err := s.event(tx, e, userIDs, clubIDs, resourceIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Seeder) club(tx *gorm.DB, c Club) (string, error) {
	var existing clubDatamodel.Club
	found, err := first(tx.Where("name = ?", c.Name), &existing)
	if err != nil || found {
		return existing.ID, err
	}
	row := clubDatamodel.Club{ID: uuid.NewString(), Name: c.Name, Description: c.Description}
	if err := tx.Create(&row).Error; err != nil {
		return "", pkgerrors.Wrapf(err, "seed club %s", c.Name)
	}
	s.logger.Info("seeded club", "name", c.Name)
	return row.ID, nil
}

func (s *Seeder) user(tx *gorm.DB, u User, clubIDs map[string]string) (string, error) {
	var existing userDatamodel.User
	found, err := first(tx.Where("email = ?", u.Email), &existing)
	if err != nil {
		return "", err
	}
	id := existing.ID
	if !found {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.opts.BCryptCost)
		if err != nil {
			return "", pkgerrors.Wrapf(err, "hash password for %s", u.Email)
		}
		role := u.GlobalRole
		if role == "" {
			role = "STUDENT"
		}
		row := userDatamodel.User{
			ID:           uuid.NewString(),
			Email:        u.Email,
			Name:         u.Name,
			PasswordHash: string(hash),
			GlobalRole:   role,
			Department:   u.Department,
			AcademicYear: u.AcademicYear,
		}
		if err := tx.Create(&row).Error; err != nil {
			return "", pkgerrors.Wrapf(err, "seed user %s", u.Email)
		}
		id = row.ID
		s.logger.Info("seeded user", "email", u.Email, "global_role", role)
	}

	for _, m := range u.Memberships {
		clubID, ok := clubIDs[m.Club]
		if !ok {
			return "", fmt.Errorf("user %s: unknown club %q", u.Email, m.Club)
		}
		var membership clubDatamodel.Membership
		found, err := first(tx.Where("user_id = ? AND club_id = ?", id, clubID), &membership)
		if err != nil {
			return "", err
		}
		if found {
			continue
		}
		membership = clubDatamodel.Membership{ID: uuid.NewString(), UserID: id, ClubID: clubID, ClubRole: m.Role}
		if err := tx.Create(&membership).Error; err != nil {
			return "", pkgerrors.Wrapf(err, "seed membership %s in %s", u.Email, m.Club)
		}
	}
	return id, nil
}

func (s *Seeder) resource(tx *gorm.DB, r Resource) (string, error) {
	var existing resourceDatamodel.Resource
	found, err := first(tx.Where("name = ?", r.Name), &existing)
	if err != nil || found {
		return existing.ID, err
	}
	row := resourceDatamodel.Resource{
		ID:               uuid.NewString(),
		Name:             r.Name,
		Type:             r.Type,
		Capacity:         r.Capacity,
		RequiresApproval: r.RequiresApproval,
		AutoApprove:      r.AutoApprove,
		Active:           true,
	}
	if err := tx.Create(&row).Error; err != nil {
		return "", pkgerrors.Wrapf(err, "seed resource %s", r.Name)
	}
	s.logger.Info("seeded resource", "name", r.Name)
	return row.ID, nil
}

func (s *Seeder) event(tx *gorm.DB, e Event, userIDs, clubIDs, resourceIDs map[string]string) error {
	var existing eventDatamodel.Event
	found, err := first(tx.Where("title = ?", e.Title), &existing)
	if err != nil || found {
		return err
	}

	creatorID, ok := userIDs[e.CreatedBy]
	if !ok {
		return fmt.Errorf("event %q: unknown creator %q", e.Title, e.CreatedBy)
	}
	status := e.Status
	if status == "" {
		status = "DRAFT"
	}
	start := s.opts.Now().UTC().Add(e.StartsIn).Truncate(time.Hour)
	row := eventDatamodel.Event{
		ID:          uuid.NewString(),
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Venue:       e.Venue,
		StartDate:   start,
		EndDate:     start.Add(e.Duration),
		Status:      status,
		CreatedByID: creatorID,
	}
	if err := tx.Create(&row).Error; err != nil {
		return pkgerrors.Wrapf(err, "seed event %s", e.Title)
	}

	for _, name := range e.Clubs {
		clubID, ok := clubIDs[name]
		if !ok {
			return fmt.Errorf("event %q: unknown club %q", e.Title, name)
		}
		if err := tx.Create(&eventDatamodel.EventClub{EventID: row.ID, ClubID: clubID}).Error; err != nil {
			return pkgerrors.Wrapf(err, "link event %s to %s", e.Title, name)
		}
	}

	for _, name := range e.Bookings {
		resourceID, ok := resourceIDs[name]
		if !ok {
			return fmt.Errorf("event %q: unknown resource %q", e.Title, name)
		}
		booking := bookingDatamodel.Booking{
			ID:         uuid.NewString(),
			ResourceID: resourceID,
			EventID:    row.ID,
			StartTime:  row.StartDate,
			EndTime:    row.EndDate,
			Approved:   true,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return pkgerrors.Wrapf(err, "book %s for %s", name, e.Title)
		}
	}

	s.logger.Info("seeded event", "title", e.Title, "status", status)
	return nil
}

// Clear removes every row the seeder can write, children first.
func (s *Seeder) Clear(ctx context.Context) error {
	models := []interface{}{
		&bookingDatamodel.Booking{},
		&eventDatamodel.EventClub{},
		&eventDatamodel.Event{},
		&resourceDatamodel.Resource{},
		&clubDatamodel.RoleRequest{},
		&clubDatamodel.Membership{},
		&clubDatamodel.Club{},
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range models {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return pkgerrors.WithStack(err)
			}
		}
		return nil
	})
}

func first(q *gorm.DB, dst interface{}) (bool, error) {
	err := q.First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.WithStack(err)
	}
	return true, nil
}
