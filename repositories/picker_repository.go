package repositories

import (
	"errors"

	"picking-app/apperrors"
	"picking-app/models"
	"picking-app/types"

	"gorm.io/gorm"
)

type PickerRepository struct {
	db *gorm.DB
}

func NewPickerRepository(db *gorm.DB) *PickerRepository {
	return &PickerRepository{db}
}

func (r *PickerRepository) List() ([]models.Picker, error) {
	var pickers []models.Picker
	if err := r.db.Order("name asc, surname asc").Find(&pickers).Error; err != nil {
		return nil, err
	}
	return pickers, nil
}

func (r *PickerRepository) Get(id types.SnowflakeID) (*models.Picker, error) {
	var picker models.Picker
	if err := r.db.First(&picker, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("picker", id.String())
		}
		return nil, err
	}
	return &picker, nil
}

func (r *PickerRepository) Create(name, surname string) (*models.Picker, error) {
	picker := models.Picker{Name: name, Surname: surname}
	if err := r.db.Create(&picker).Error; err != nil {
		return nil, err
	}
	return &picker, nil
}

// No update: pickers are immutable once created. A wrong entry is deleted
// and re-created.
func (r *PickerRepository) Delete(id types.SnowflakeID) error {
	res := r.db.Delete(&models.Picker{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("picker", id.String())
	}
	return nil
}
