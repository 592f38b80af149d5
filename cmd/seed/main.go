package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/ladlelabs/ladle/backend/config"
	"github.com/ladlelabs/ladle/backend/internal/database"
	"github.com/ladlelabs/ladle/backend/internal/models"
)

type ingredientSeed struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type tagSeed struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

func main() {
	ingredientsFile := flag.String("ingredients", "data/ingredients.json", "Ingredient catalog JSON file")
	tagsFile := flag.String("tags", "data/tags.json", "Tag catalog JSON file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seedIngredients(db, *ingredientsFile); err != nil {
		log.Fatalf("Failed to seed ingredients: %v", err)
	}
	if err := seedTags(db, *tagsFile); err != nil {
		log.Fatalf("Failed to seed tags: %v", err)
	}

	log.Println("Seeding complete")
}

func seedIngredients(db *gorm.DB, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var seeds []ingredientSeed
	if err := json.Unmarshal(content, &seeds); err != nil {
		return err
	}

	created := 0
	for _, seed := range seeds {
		ingredient := models.Ingredient{
			Name:            seed.Name,
			MeasurementUnit: seed.MeasurementUnit,
		}
		result := db.Where("name = ? AND measurement_unit = ?", seed.Name, seed.MeasurementUnit).
			FirstOrCreate(&ingredient)
		if result.Error != nil {
			return result.Error
		}
		created += int(result.RowsAffected)
	}

	log.Printf("Seeded %d ingredients (%d new)", len(seeds), created)
	return nil
}

func seedTags(db *gorm.DB, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var seeds []tagSeed
	if err := json.Unmarshal(content, &seeds); err != nil {
		return err
	}

	created := 0
	for _, seed := range seeds {
		tag := models.Tag{
			Name:  seed.Name,
			Color: seed.Color,
			Slug:  seed.Slug,
		}
		result := db.Where("slug = ?", seed.Slug).FirstOrCreate(&tag)
		if result.Error != nil {
			return result.Error
		}
		created += int(result.RowsAffected)
	}

	log.Printf("Seeded %d tags (%d new)", len(seeds), created)
	return nil
}
