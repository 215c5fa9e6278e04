package main

import (
	"context"
	"fmt"
	"os"

	"classquiz/cmd/seed_initial_data/internal/seedmodels"
	"classquiz/internal/config"
	"classquiz/internal/database"
	"classquiz/internal/domain"
	"classquiz/internal/dto"
	"classquiz/internal/logger"
	"classquiz/internal/repository"
	"classquiz/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultSeedFilePath = "configs/seed_data/initial_school.yaml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var seedFilePath string
	var migrate bool
	cmd := &cobra.Command{
		Use:          "seed_initial_data",
		Short:        "Create the admin login, teachers and classes listed in a seed file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), seedFilePath, migrate)
		},
	}
	cmd.Flags().StringVar(&seedFilePath, "file", defaultSeedFilePath, "path to the YAML seed file")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations first")
	return cmd
}

func run(ctx context.Context, seedFilePath string, migrate bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting initial data seeding process...")
	data, err := seedmodels.Load(seedFilePath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate {
		if err := database.RunMigrations(db, cfg.DB.Driver); err != nil {
			return err
		}
	}

	report, err := newSeeder(db, cfg.Auth.DefaultPassword).seed(ctx, data)
	if err != nil {
		log.Error("Seeding stopped", zap.Error(err))
		return err
	}
	log.Info("Initial data seeding process completed.",
		zap.Bool("adminCreated", report.AdminCreated),
		zap.Int("teachersCreated", report.TeachersCreated),
		zap.Int("classesCreated", report.ClassesCreated),
	)
	return nil
}

// seedReport counts the rows a run actually inserted.
type seedReport struct {
	AdminCreated    bool
	TeachersCreated int
	ClassesCreated  int
}

type seeder struct {
	users    domain.UserRepository
	teachers domain.TeacherRepository
	classes  domain.ClassRepository
	admin    service.AdminService
	school   service.SchoolService
}

func newSeeder(db *sqlx.DB, defaultPassword string) *seeder {
	users := repository.NewSQLXUserRepository(db)
	teachers := repository.NewSQLXTeacherRepository(db)
	classes := repository.NewSQLXClassRepository(db)
	students := repository.NewSQLXStudentRepository(db)
	tx := repository.NewTransactionManagerAdapter(db)
	return &seeder{
		users:    users,
		teachers: teachers,
		classes:  classes,
		admin:    service.NewAdminService(teachers, users, tx, defaultPassword),
		school:   service.NewSchoolService(classes, students, users, tx, defaultPassword),
	}
}

// seed inserts whatever part of data is missing. Existing rows are left as they are,
// so running it twice is harmless.
func (s *seeder) seed(ctx context.Context, data *seedmodels.SeedData) (*seedReport, error) {
	log := logger.Get()
	report := &seedReport{}

	if data.Admin != nil {
		created, err := s.seedAdmin(ctx, data.Admin)
		if err != nil {
			return report, err
		}
		report.AdminCreated = created
	}

	for _, st := range data.Teachers {
		teacherID, created, err := s.seedTeacher(ctx, st)
		if err != nil {
			return report, fmt.Errorf("teacher %s: %w", st.Email, err)
		}
		if created {
			report.TeachersCreated++
		}

		n, err := s.seedClasses(ctx, teacherID, st.Classes)
		if err != nil {
			return report, fmt.Errorf("classes of teacher %s: %w", st.Email, err)
		}
		report.ClassesCreated += n
		log.Info("Processed teacher", zap.String("email", st.Email), zap.Bool("created", created), zap.Int("classesCreated", n))
	}
	return report, nil
}

func (s *seeder) seedAdmin(ctx context.Context, admin *seedmodels.SeedAdmin) (bool, error) {
	existing, err := s.users.GetByUsername(ctx, admin.Username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}
	err = s.users.Create(ctx, &domain.User{
		Username:     admin.Username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *seeder) seedTeacher(ctx context.Context, st seedmodels.SeedTeacher) (int64, bool, error) {
	existing, err := s.teachers.GetByEmail(ctx, st.Email)
	if err != nil {
		return 0, false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}
	created, err := s.admin.CreateTeacher(ctx, &dto.TeacherRequest{Name: st.Name, Email: st.Email, Phone: st.Phone})
	if err != nil {
		return 0, false, err
	}
	return created.ID, true, nil
}

func (s *seeder) seedClasses(ctx context.Context, teacherID int64, classes []seedmodels.SeedClass) (int, error) {
	owned, err := s.classes.List(ctx, &teacherID)
	if err != nil {
		return 0, err
	}
	names := make(map[string]bool, len(owned))
	for _, c := range owned {
		names[c.Name] = true
	}

	teacher := domain.Identity{ID: teacherID, Role: domain.RoleTeacher}
	created := 0
	for _, sc := range classes {
		if names[sc.Name] {
			continue
		}
		if _, err := s.school.CreateClass(ctx, teacher, &dto.ClassRequest{Name: sc.Name, Description: sc.Description}); err != nil {
			return created, err
		}
		names[sc.Name] = true
		created++
	}
	return created, nil
}
