package db_models

import (
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type CatalogService struct {
	BaseModel
	Name        string
	ServiceType string `gorm:"size:30"`
	Price       float64 `gorm:"type:numeric"`
	Rating      float64 `gorm:"type:numeric"`
	Location    string
	Description string
	Tags        pq.StringArray  `gorm:"type:text[]"`
	Embedding   pgvector.Vector `gorm:"type:vector(1536)"`
}
