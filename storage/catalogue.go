package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"buildquote/models"

	"gorm.io/gorm"
)

// LoadManufacturers reads the static manufacturer catalogue. The file is
// read once at startup; editing it requires a restart.
func LoadManufacturers(dataDir string) ([]models.Manufacturer, error) {
	raw, err := os.ReadFile(filepath.Join(dataDir, "manufacturers.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read manufacturers.json: %v", err)
	}

	var manufacturers []models.Manufacturer
	if err := json.Unmarshal(raw, &manufacturers); err != nil {
		return nil, fmt.Errorf("failed to parse manufacturers.json: %v", err)
	}

	return manufacturers, nil
}

// LoadCommunitySystems reads every community-submitted system out of the
// single blob row. A missing row means no submissions yet.
func LoadCommunitySystems(gdb *gorm.DB) ([]models.ProductSystem, error) {
	var blob models.UserSystemsBlob
	if err := gdb.First(&blob, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.ProductSystem{}, nil
		}
		return nil, fmt.Errorf("failed to load community systems: %v", err)
	}

	var systems []models.ProductSystem
	if err := json.Unmarshal([]byte(blob.Data), &systems); err != nil {
		return nil, fmt.Errorf("failed to parse community systems blob: %v", err)
	}

	return systems, nil
}

// AppendCommunitySystem appends one system to the blob row in a
// read-modify-write transaction, creating the row on first submission.
func AppendCommunitySystem(gdb *gorm.DB, system models.ProductSystem) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var blob models.UserSystemsBlob
		err := tx.First(&blob, 1).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			blob = models.UserSystemsBlob{ID: 1, Data: "[]"}
			if err := tx.Create(&blob).Error; err != nil {
				return fmt.Errorf("failed to create community systems row: %v", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to load community systems: %v", err)
		}

		var systems []models.ProductSystem
		if err := json.Unmarshal([]byte(blob.Data), &systems); err != nil {
			return fmt.Errorf("failed to parse community systems blob: %v", err)
		}
		systems = append(systems, system)

		data, err := json.Marshal(systems)
		if err != nil {
			return fmt.Errorf("failed to encode community systems: %v", err)
		}
		blob.Data = string(data)

		if err := tx.Save(&blob).Error; err != nil {
			return fmt.Errorf("failed to save community systems: %v", err)
		}
		return nil
	})
}
