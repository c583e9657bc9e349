package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jagravi04/unimatch-finder/model"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedUniversities(); err != nil {
		return fmt.Errorf("failed to seed universities: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedUniversityID derives a stable id from the university name so reseeding an
// emptied table yields the same identifiers
func SeedUniversityID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("unimatch/university/"+name)).String()
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

// SeedCatalog is the reference catalog used when the table is empty
func SeedCatalog() []model.University {
	universities := []model.University{
		{
			Name:           "Harvard University",
			Country:        "USA",
			City:           "Cambridge, MA",
			DegreeLevel:    "Bachelor's",
			TuitionFee:     54000,
			MinGPA:         3.9,
			MinIELTS:       7.5,
			ImageURL:       "https://images.unsplash.com/photo-1562774053-701939374585?w=800",
			Ranking:        intPtr(1),
			AcceptanceRate: floatPtr(4),
			Description:    "One of the world's most prestigious universities, known for excellence in law, business, and medicine.",
			Programs:       []string{"Law", "Business", "Medicine"},
		},
		{
			Name:           "University of Oxford",
			Country:        "UK",
			City:           "Oxford",
			DegreeLevel:    "Master's",
			TuitionFee:     38000,
			MinGPA:         3.7,
			MinIELTS:       7.0,
			ImageURL:       "https://images.unsplash.com/photo-1607237138185-eedd9c632b0b?w=800",
			Ranking:        intPtr(2),
			AcceptanceRate: floatPtr(17),
			Description:    "The oldest university in the English-speaking world, renowned for academic excellence.",
			Programs:       []string{"Humanities", "Philosophy", "Mathematics"},
		},
		{
			Name:           "University of Toronto",
			Country:        "Canada",
			City:           "Toronto, ON",
			DegreeLevel:    "Bachelor's",
			TuitionFee:     45000,
			MinGPA:         3.5,
			MinIELTS:       6.5,
			ImageURL:       "https://images.unsplash.com/photo-1569982175971-d92b01cf8694?w=800",
			Ranking:        intPtr(18),
			AcceptanceRate: floatPtr(43),
			Description:    "Canada's leading institution of learning, discovery and knowledge creation.",
		},
		{
			Name:           "Technical University of Munich",
			Country:        "Germany",
			City:           "Munich",
			DegreeLevel:    "Master's",
			TuitionFee:     12000,
			MinGPA:         3.3,
			MinIELTS:       6.5,
			ImageURL:       "https://images.unsplash.com/photo-1523050854058-8df90110c9f1?w=800",
			Ranking:        intPtr(30),
			AcceptanceRate: floatPtr(8),
			Description:    "Germany's leading technical university, known for engineering and natural sciences.",
			Programs:       []string{"Engineering", "Natural Sciences"},
		},
		{
			Name:           "University of Melbourne",
			Country:        "Australia",
			City:           "Melbourne, VIC",
			DegreeLevel:    "Bachelor's",
			TuitionFee:     35000,
			MinGPA:         3.4,
			MinIELTS:       6.5,
			ImageURL:       "https://images.unsplash.com/photo-1580537659466-0a9bfa916a54?w=800",
			Ranking:        intPtr(33),
			AcceptanceRate: floatPtr(70),
			Description:    "Australia's leading university, consistently ranked among the world's best.",
		},
		{
			Name:           "ETH Zurich",
			Country:        "Switzerland",
			City:           "Zurich",
			DegreeLevel:    "PhD",
			TuitionFee:     8000,
			MinGPA:         3.8,
			MinIELTS:       7.0,
			ImageURL:       "https://images.unsplash.com/photo-1541339907198-e08756dedf3f?w=800",
			Ranking:        intPtr(7),
			AcceptanceRate: floatPtr(27),
			Description:    "One of the world's leading universities for technology and natural sciences.",
			Programs:       []string{"Technology", "Natural Sciences"},
		},
		{
			Name:           "MIT",
			Country:        "USA",
			City:           "Cambridge, MA",
			DegreeLevel:    "Master's",
			TuitionFee:     57000,
			MinGPA:         3.9,
			MinIELTS:       7.5,
			ImageURL:       "https://images.unsplash.com/photo-1564981797816-1043664bf78d?w=800",
			Ranking:        intPtr(3),
			AcceptanceRate: floatPtr(4),
			Description:    "The world's leading research university in science, technology, and innovation.",
			Programs:       []string{"Science", "Technology", "Engineering"},
		},
		{
			Name:           "University of British Columbia",
			Country:        "Canada",
			City:           "Vancouver, BC",
			DegreeLevel:    "Bachelor's",
			TuitionFee:     42000,
			MinGPA:         3.2,
			MinIELTS:       6.5,
			ImageURL:       "https://images.unsplash.com/photo-1498243691581-b145c3f54a5a?w=800",
			Ranking:        intPtr(35),
			AcceptanceRate: floatPtr(52),
			Description:    "A global centre for research and teaching, consistently ranked among the top universities.",
		},
	}

	for i := range universities {
		universities[i].ID = SeedUniversityID(universities[i].Name)
	}
	return universities
}

// SeedUniversities creates the reference catalog when no university exists yet
func (s *Seeder) SeedUniversities() error {
	var count int64
	if err := s.db.Model(&model.University{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Universities already exist, skipping...")
		return nil
	}

	universities := SeedCatalog()
	if err := s.db.Create(&universities).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d universities\n", len(universities))
	return nil
}

// RunSeeds runs every seeder against db
func RunSeeds(db *gorm.DB) error {
	seeder := NewSeeder(db)
	return seeder.SeedAll()
}
