package models

type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string `json:"name" gorm:"size:200;not null;uniqueIndex:idx_ingredients_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null;uniqueIndex:idx_ingredients_name_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
