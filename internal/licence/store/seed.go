package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"renewal-gateway/internal/licence/models"
	"renewal-gateway/pkg/civildate"
	"renewal-gateway/pkg/platform/sentinel"
)

// SeedFile is the YAML fixture format for licences created outside the service.
//
//	licences:
//	  - number: "NSW-1001"
//	    name: "Ada Lovelace"
//	    class: "C"
//	    address: "1 George St, Sydney"
//	    email: "ada@example.com"
//	    expiryDate: "31122030"
type SeedFile struct {
	Licences []SeedLicence `yaml:"licences"`
}

type SeedLicence struct {
	Number     string `yaml:"number"`
	Name       string `yaml:"name"`
	Class      string `yaml:"class"`
	Address    string `yaml:"address"`
	Email      string `yaml:"email"`
	ExpiryDate string `yaml:"expiryDate"`
}

// Creator is the write side of a licence store used by seeding.
type Creator interface {
	Create(ctx context.Context, l *models.Licence) (int64, error)
}

// LoadSeedFile reads and parses a licence fixture.
func LoadSeedFile(path string) ([]*models.Licence, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes fixture bytes. Expiry dates use the DDMMYYYY wire format.
func ParseSeed(raw []byte) ([]*models.Licence, error) {
	var file SeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	out := make([]*models.Licence, 0, len(file.Licences))
	for i, entry := range file.Licences {
		if entry.Number == "" {
			return nil, fmt.Errorf("seed licence %d: number is required", i)
		}
		expiry, err := civildate.ParseDDMMYYYY(entry.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("seed licence %s: expiryDate: %w", entry.Number, err)
		}
		out = append(out, &models.Licence{
			Number:       entry.Number,
			Name:         entry.Name,
			LicenceClass: entry.Class,
			Address:      entry.Address,
			Email:        entry.Email,
			ExpiryDate:   expiry,
		})
	}
	return out, nil
}

// Seed creates every licence, skipping numbers that already exist.
// It returns how many licences were created.
func Seed(ctx context.Context, store Creator, licences []*models.Licence, logger *slog.Logger) (int, error) {
	created := 0
	for _, l := range licences {
		id, err := store.Create(ctx, l)
		if errors.Is(err, sentinel.ErrConflict) {
			logger.DebugContext(ctx, "licence already seeded", "number", l.Number)
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed licence %s: %w", l.Number, err)
		}
		logger.DebugContext(ctx, "licence seeded", "number", l.Number, "licence_id", id)
		created++
	}
	return created, nil
}
