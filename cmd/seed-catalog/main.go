package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/config"
	"github.com/khedma/sunday-school-backend/internal/database"
	"github.com/khedma/sunday-school-backend/internal/logger"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/repository"
)

// defaultReasons is the starter point catalog. The ATTENDANCE entry is the
// one check-ins credit.
var defaultReasons = []model.PointReason{
	{Name: "حضور مدارس الأحد", Points: 10, Category: model.CategoryAttendance, LimitType: model.LimitNone},
	{Name: "حضور القداس", Points: 20, Category: model.CategoryMass, LimitType: model.LimitNone},
	{Name: "الاعتراف", Points: 30, Category: model.CategoryConfession, LimitType: model.LimitOncePerCalendarMonth},
	{Name: "حفظ آية", Points: 5, Category: model.CategoryOther, LimitType: model.LimitNone},
	{Name: "سلوك ممتاز", Points: 10, Category: model.CategoryDiscipline, LimitType: model.LimitNone},
}

// defaultGrades are created with one boys' and one girls' class each.
var defaultGrades = []string{"حضانة", "أولى وتانية", "تالتة ورابعة", "خامسة وسادسة"}

func main() {
	var withClasses bool
	flag.BoolVar(&withClasses, "classes", false, "Also create the default grades and classes")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	store := repository.NewStore(pool)

	fmt.Println("=== Seeding Catalog ===")

	owner, err := superAdmin(ctx, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Run create-admin first")
	}

	existing, err := store.ListReasons(ctx, model.ReasonFilter{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list reasons")
	}
	if len(existing) > 0 {
		fmt.Printf("Reason catalog already has %d entries, skipping.\n", len(existing))
	} else {
		err = store.InTx(ctx, func(q repository.Queries) error {
			for _, r := range defaultReasons {
				r.AllowedRoles = model.AllRoles
				r.IsActive = true
				r.CreatedBy = owner
				if err := q.CreateReason(ctx, &r); err != nil {
					return fmt.Errorf("create reason %q: %w", r.Name, err)
				}
			}
			return nil
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed reasons")
		}
		fmt.Printf("Created %d reasons.\n", len(defaultReasons))
	}

	if !withClasses {
		return
	}

	grades, err := store.ListGrades(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list grades")
	}
	if len(grades) > 0 {
		fmt.Printf("Found %d grades, skipping classes.\n", len(grades))
		return
	}

	err = store.InTx(ctx, func(q repository.Queries) error {
		for i, name := range defaultGrades {
			g := &model.Grade{Name: name, SortOrder: i + 1}
			if err := q.CreateGrade(ctx, g); err != nil {
				return fmt.Errorf("create grade %q: %w", name, err)
			}
			for _, gender := range []model.Gender{model.GenderMale, model.GenderFemale} {
				label := "ولاد"
				if gender == model.GenderFemale {
					label = "بنات"
				}
				c := &model.Class{GradeID: g.ID, Name: name + " " + label, Gender: gender, IsActive: true}
				if err := q.CreateClass(ctx, c); err != nil {
					return fmt.Errorf("create class %q: %w", c.Name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed classes")
	}

	fmt.Printf("\nSeed completed! Created %d grades with %d classes.\n", len(defaultGrades), len(defaultGrades)*2)
}

// superAdmin returns the first active super admin, who owns the seeded rows.
func superAdmin(ctx context.Context, q repository.Queries) (uuid.UUID, error) {
	users, err := q.ListUsers(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	for _, u := range users {
		if u.Role == model.RoleSuperAdmin && u.IsActive {
			return u.ID, nil
		}
	}
	return uuid.Nil, errors.New("no active super admin")
}
