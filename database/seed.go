package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sahilchouksey/edu-directory/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SampleData is a small, self-consistent directory used for seeding
type SampleData struct {
	Users        []model.User
	Institutions []model.Institution
	Courses      []model.Course
	Reviews      []model.Review
}

func intPtr(n int) *int         { return &n }
func feePtr(f float64) *float64 { return &f }
func idPtr(id string) *string   { return &id }

// Sample builds the sample directory with fresh ids
func Sample(now time.Time) SampleData {
	var d SampleData

	users := []string{"Aarav Shah", "Maya Chen", "Liam O'Connor", "Sofia Rossi"}
	for i, name := range users {
		d.Users = append(d.Users, model.User{
			ID:    uuid.NewString(),
			Name:  name,
			Email: fmt.Sprintf("reviewer%d@example.com", i+1),
		})
	}

	institutions := []model.Institution{
		{Name: "Northfield University", Description: "Private research university known for engineering and data science.", Type: model.InstitutionUniversity, City: "Boston", State: "MA", Country: "USA", Website: "https://northfield.example.edu", FoundedYear: intPtr(1861), Accreditation: "NECHE", Rating: 4.7},
		{Name: "Lakeside College", Description: "Liberal arts college with small class sizes.", Type: model.InstitutionCollege, City: "Chicago", State: "IL", Country: "USA", Website: "https://lakeside.example.edu", FoundedYear: intPtr(1905), Accreditation: "HLC", Rating: 4.2},
		{Name: "Harbor Community College", Description: "Affordable two-year programs and transfer pathways.", Type: model.InstitutionCommunityCollege, City: "Seattle", State: "WA", Country: "USA", FoundedYear: intPtr(1967), Rating: 3.9},
		{Name: "Hillcrest Institute of Technology", Description: "Applied technology institute with industry partnerships.", Type: model.InstitutionInstitute, City: "Pune", State: "MH", Country: "India", FoundedYear: intPtr(1998), Accreditation: "NAAC", Rating: 4.5},
	}
	for i := range institutions {
		institutions[i].ID = uuid.NewString()
	}
	d.Institutions = institutions

	course := func(inst int, title, desc string, level model.CourseLevel, format model.CourseFormat, duration string, fee *float64, rating float64) model.Course {
		return model.Course{
			ID:            uuid.NewString(),
			InstitutionID: institutions[inst].ID,
			Title:         title,
			Description:   desc,
			Level:         level,
			Format:        format,
			Duration:      duration,
			TuitionFee:    fee,
			Currency:      "USD",
			Rating:        rating,
		}
	}
	d.Courses = []model.Course{
		course(0, "Master of Data Science", "Statistics, machine learning and data engineering.", model.LevelGraduate, model.FormatHybrid, "2 years", feePtr(48000), 4.8),
		course(0, "BSc Computer Science", "Algorithms, systems and software engineering.", model.LevelUndergraduate, model.FormatOnCampus, "4 years", feePtr(52000), 4.6),
		course(0, "PhD in Robotics", "Research program in autonomous systems.", model.LevelDoctoral, model.FormatOnCampus, "5 years", nil, 4.9),
		course(1, "BA Economics", "Micro and macroeconomics with quantitative methods.", model.LevelUndergraduate, model.FormatOnCampus, "4 years", feePtr(31000), 4.1),
		course(1, "Data Literacy Certificate", "Short program on working with data.", model.LevelCertificate, model.FormatOnline, "6 months", feePtr(2500), 4.0),
		course(2, "Associate in Nursing", "Clinical practice and patient care.", model.LevelUndergraduate, model.FormatOnCampus, "2 years", feePtr(9000), 4.3),
		course(2, "Web Development Certificate", "Frontend and backend fundamentals.", model.LevelCertificate, model.FormatOnline, "9 months", feePtr(3200), 3.8),
		course(3, "MTech Embedded Systems", "Microcontrollers, RTOS and hardware design.", model.LevelGraduate, model.FormatOnCampus, "2 years", feePtr(6000), 4.4),
		course(3, "BTech Information Technology", "Networks, databases and cloud computing.", model.LevelUndergraduate, model.FormatHybrid, "4 years", feePtr(4800), 4.2),
	}

	review := func(user int, rating int, comment string, inst, course *string, age time.Duration) model.Review {
		return model.Review{
			ID:            uuid.NewString(),
			UserID:        d.Users[user].ID,
			Rating:        rating,
			Comment:       comment,
			InstitutionID: inst,
			CourseID:      course,
			CreatedAt:     now.Add(-age),
		}
	}
	day := 24 * time.Hour
	d.Reviews = []model.Review{
		review(0, 5, "Outstanding faculty and labs.", idPtr(institutions[0].ID), nil, 2*day),
		review(1, 4, "Great research culture, expensive city.", idPtr(institutions[0].ID), nil, 10*day),
		review(2, 4, "Friendly campus and good advising.", idPtr(institutions[1].ID), nil, 5*day),
		review(3, 4, "Solid value for the money.", idPtr(institutions[2].ID), nil, 30*day),
		review(0, 5, "Industry projects every semester.", idPtr(institutions[3].ID), nil, 1*day),
		review(1, 5, "Capstone with a real company was the highlight.", nil, idPtr(d.Courses[0].ID), 3*day),
		review(2, 4, "Heavy workload but worth it.", nil, idPtr(d.Courses[0].ID), 12*day),
		review(3, 4, "Clinical rotations are well organized.", nil, idPtr(d.Courses[5].ID), 7*day),
	}

	return d
}

// Seeder handles database seeding operations
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// SeedAll inserts the sample directory in one transaction. It is skipped when
// institutions already exist.
func (s *Seeder) SeedAll(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Institution{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("institutions already exist, skipping seed", zap.Int64("count", count))
		return nil
	}

	data := Sample(time.Now().UTC())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Run seeds in order (respecting foreign key constraints)
		if err := tx.Create(&data.Users).Error; err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		if err := tx.Omit("Courses", "Reviews").Create(&data.Institutions).Error; err != nil {
			return fmt.Errorf("failed to seed institutions: %w", err)
		}
		if err := tx.Omit("Reviews").Create(&data.Courses).Error; err != nil {
			return fmt.Errorf("failed to seed courses: %w", err)
		}
		if err := tx.Omit("User").Create(&data.Reviews).Error; err != nil {
			return fmt.Errorf("failed to seed reviews: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("database seeding completed",
		zap.Int("institutions", len(data.Institutions)),
		zap.Int("courses", len(data.Courses)),
		zap.Int("reviews", len(data.Reviews)),
	)
	return nil
}
