// Package store persists routing groups in a relational database through GORM.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BaSui01/synax/routing"
	"github.com/BaSui01/synax/types"
)

type groupRecord struct {
	ID        string `gorm:"primaryKey;size:128"`
	Name      string `gorm:"size:255"`
	Use       string `gorm:"column:dispatcher;size:128"`
	Options   string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (groupRecord) TableName() string { return "synax_groups" }

type memberRecord struct {
	ID           uint   `gorm:"primaryKey"`
	GroupID      string `gorm:"size:128;not null;index:idx_member_group_position,priority:1"`
	Position     int    `gorm:"not null;index:idx_member_group_position,priority:2"`
	Provider     string `gorm:"size:128;not null"`
	DefaultModel string `gorm:"size:255"`
	Model        string `gorm:"size:255"`
	Options      string `gorm:"type:text"`
}

func (memberRecord) TableName() string { return "synax_group_members" }

// GroupStore reads and writes routing.Group definitions.
// Members keep their declared order through an explicit position column.
type GroupStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGroupStore creates a GroupStore. Call Migrate before first use.
func NewGroupStore(db *gorm.DB, logger *zap.Logger) *GroupStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupStore{db: db, logger: logger.With(zap.String("component", "group_store"))}
}

// Migrate creates or updates the group tables.
func (s *GroupStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&groupRecord{}, &memberRecord{}); err != nil {
		return fmt.Errorf("migrate group tables: %w", err)
	}
	return nil
}

// SaveGroup inserts or replaces a group together with all of its members.
func (s *GroupStore) SaveGroup(ctx context.Context, g routing.Group) error {
	if err := g.Validate(); err != nil {
		return err
	}

	rec, err := toGroupRecord(g)
	if err != nil {
		return err
	}
	members := make([]memberRecord, 0, len(g.Members))
	for i, m := range g.Members {
		opts, err := encodeOptions(m.Options)
		if err != nil {
			return types.Errorf(types.ErrInvalidConfig, "group %q member %d options", g.ID, i).WithCause(err)
		}
		members = append(members, memberRecord{
			GroupID:      g.ID,
			Position:     i,
			Provider:     m.Provider,
			DefaultModel: m.Default,
			Model:        m.Model,
			Options:      opts,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "dispatcher", "options", "updated_at"}),
		}).Create(&rec).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", g.ID).Delete(&memberRecord{}).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return fmt.Errorf("save group %q: %w", g.ID, err)
	}

	s.logger.Debug("group saved", zap.String("group", g.ID), zap.Int("members", len(members)))
	return nil
}

// LoadGroups returns every stored group ordered by id.
func (s *GroupStore) LoadGroups(ctx context.Context) ([]routing.Group, error) {
	var recs []groupRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}

	var members []memberRecord
	if err := s.db.WithContext(ctx).Order("group_id").Order("position").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("load group members: %w", err)
	}
	byGroup := make(map[string][]memberRecord, len(recs))
	for _, m := range members {
		byGroup[m.GroupID] = append(byGroup[m.GroupID], m)
	}

	out := make([]routing.Group, 0, len(recs))
	for _, rec := range recs {
		g, err := fromRecords(rec, byGroup[rec.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// GetGroup returns one group, or GROUP_NOT_FOUND.
func (s *GroupStore) GetGroup(ctx context.Context, id string) (routing.Group, error) {
	var rec groupRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return routing.Group{}, types.Errorf(types.ErrGroupNotFound, "group %q not found", id)
	}
	if err != nil {
		return routing.Group{}, fmt.Errorf("get group %q: %w", id, err)
	}

	var members []memberRecord
	if err := s.db.WithContext(ctx).Where("group_id = ?", id).Order("position").Find(&members).Error; err != nil {
		return routing.Group{}, fmt.Errorf("get group %q members: %w", id, err)
	}
	return fromRecords(rec, members)
}

// DeleteGroup removes a group and its members. Missing groups yield GROUP_NOT_FOUND.
func (s *GroupStore) DeleteGroup(ctx context.Context, id string) error {
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&memberRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&groupRecord{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("delete group %q: %w", id, err)
	}
	if affected == 0 {
		return types.Errorf(types.ErrGroupNotFound, "group %q not found", id)
	}
	s.logger.Debug("group deleted", zap.String("group", id))
	return nil
}

func toGroupRecord(g routing.Group) (groupRecord, error) {
	opts, err := encodeOptions(g.Options)
	if err != nil {
		return groupRecord{}, types.Errorf(types.ErrInvalidConfig, "group %q options", g.ID).WithCause(err)
	}
	return groupRecord{ID: g.ID, Name: g.Name, Use: g.Use, Options: opts}, nil
}

func fromRecords(rec groupRecord, members []memberRecord) (routing.Group, error) {
	g := routing.Group{ID: rec.ID, Name: rec.Name, Use: rec.Use, Members: make([]routing.Member, 0, len(members))}

	var err error
	if g.Options, err = decodeOptions(rec.Options); err != nil {
		return routing.Group{}, fmt.Errorf("group %q options: %w", rec.ID, err)
	}
	for _, m := range members {
		opts, err := decodeOptions(m.Options)
		if err != nil {
			return routing.Group{}, fmt.Errorf("group %q member %d options: %w", rec.ID, m.Position, err)
		}
		g.Members = append(g.Members, routing.Member{
			Provider: m.Provider,
			Default:  m.DefaultModel,
			Model:    m.Model,
			Options:  opts,
		})
	}
	return g, nil
}

// encodeOptions stores nil and empty maps as "".
func encodeOptions(opts map[string]any) (string, error) {
	if len(opts) == 0 {
		return "", nil
	}
	b, err := json.Marshal(opts)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeOptions(s string) (map[string]any, error) {
	if s == "" {
		return nil, nil
	}
	var opts map[string]any
	if err := json.Unmarshal([]byte(s), &opts); err != nil {
		return nil, err
	}
	return opts, nil
}
