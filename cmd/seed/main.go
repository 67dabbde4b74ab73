package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"cognicard/internal/auth"
	"cognicard/internal/config"
	librarySvc "cognicard/internal/domain/services/library"
	"cognicard/internal/metrics"
	"cognicard/internal/repository/postgres"
	postgresLibrary "cognicard/internal/repository/postgres/library"
	serviceAuth "cognicard/internal/service/auth"
	serviceLibrary "cognicard/internal/service/library"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all library tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed a library")
	userID := flag.String("user", "", "Seed the library of this user id (UUID)")
	email := flag.String("email", "demo@cognicard.dev", "Demo account to create when --user is not given")
	password := flag.String("password", "cognicard-demo", "Password for the demo account")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := config.NewLogger("", nil)

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping library tables...")
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		return
	}

	owner, err := resolveUser(ctx, cfg, *userID, *email, *password)
	if err != nil {
		log.Fatalf("Failed to resolve seed user: %v", err)
	}
	log.Printf("👤 Seeding library for user %s", owner)

	// Create repositories and services exactly as the server does
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgresLibrary.NewFolderRepository(repoConfig)
	deckRepo := postgresLibrary.NewDeckRepository(repoConfig)
	cardRepo := postgresLibrary.NewCardRepository(repoConfig)
	attemptRepo := postgresLibrary.NewAttemptRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)
	authorizer := serviceAuth.NewOwnerBasedAuthorizer(folderRepo, deckRepo, cardRepo)
	m := metrics.NewMetrics()

	s := &seeder{
		userID:  owner,
		folders: serviceLibrary.NewFolderService(folderRepo, txManager, authorizer, m, logger),
		decks:   serviceLibrary.NewDeckService(deckRepo, txManager, authorizer, m, logger),
		cards:   serviceLibrary.NewCardService(cardRepo, txManager, authorizer, m, logger),
		study:   serviceLibrary.NewStudyService(attemptRepo, authorizer, m, logger),
	}

	log.Println("⚠️  Clearing the user's existing library...")
	if err := clearLibrary(ctx, pool, tables, owner); err != nil {
		log.Fatalf("Failed to clear library: %v", err)
	}

	if err := s.seed(ctx, sampleLibrary()); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("🎉 Seeding complete!")
}

// resolveUser returns the explicit --user id, or provisions the demo account through the Admin API
func resolveUser(ctx context.Context, cfg *config.Config, userID, email, password string) (string, error) {
	if userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			return "", fmt.Errorf("--user must be a UUID: %w", err)
		}
		return id.String(), nil
	}

	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		return "", fmt.Errorf("pass --user or set SUPABASE_URL and SUPABASE_KEY to create %s", email)
	}
	admin := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)
	return admin.EnsureUser(ctx, email, password)
}

// clearLibrary deletes the user's folders and decks; cards and attempts cascade
func clearLibrary(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, userID string) error {
	for _, table := range []string{tables.Decks, tables.Folders} {
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, table), userID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

type seedDeck struct {
	name        string
	description string
	csv         string
	// accuracy of one study pass per day, most recent last
	history []float64
}

type seedFolder struct {
	name    string
	folders []seedFolder
	decks   []seedDeck
}

type seeder struct {
	userID  string
	folders librarySvc.FolderService
	decks   librarySvc.DeckService
	cards   librarySvc.CardService
	study   librarySvc.StudyService
}

func (s *seeder) seed(ctx context.Context, root seedFolder) error {
	for _, deck := range root.decks {
		if err := s.seedDeck(ctx, deck, nil); err != nil {
			return err
		}
	}
	for _, folder := range root.folders {
		if err := s.seedFolder(ctx, folder, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedFolder(ctx context.Context, f seedFolder, parentID *string) error {
	folder, err := s.folders.CreateFolder(ctx, &librarySvc.CreateFolderRequest{
		UserID:         s.userID,
		Name:           f.name,
		ParentFolderID: parentID,
	})
	if err != nil {
		return fmt.Errorf("create folder %q: %w", f.name, err)
	}
	log.Printf("📁 Created folder %s", f.name)

	for _, deck := range f.decks {
		if err := s.seedDeck(ctx, deck, &folder.ID); err != nil {
			return err
		}
	}
	for _, child := range f.folders {
		if err := s.seedFolder(ctx, child, &folder.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedDeck(ctx context.Context, d seedDeck, folderID *string) error {
	deck, err := s.decks.CreateDeck(ctx, &librarySvc.CreateDeckRequest{
		UserID:      s.userID,
		Name:        d.name,
		Description: d.description,
		FolderID:    folderID,
	})
	if err != nil {
		return fmt.Errorf("create deck %q: %w", d.name, err)
	}

	result, err := s.cards.ImportCSV(ctx, &librarySvc.ImportCSVRequest{
		UserID: s.userID,
		DeckID: deck.ID,
	}, strings.NewReader(d.csv))
	if err != nil {
		return fmt.Errorf("import cards into %q: %w", d.name, err)
	}
	log.Printf("✅ Created deck %s (%d cards)", d.name, result.Summary.Created)

	total := result.Summary.Created
	if total == 0 {
		return nil
	}
	now := time.Now()
	for i, accuracy := range d.history {
		completedAt := now.AddDate(0, 0, i-len(d.history)+1).Add(-time.Hour)
		_, err := s.study.RecordAttempt(ctx, &librarySvc.RecordAttemptRequest{
			UserID:      s.userID,
			DeckID:      deck.ID,
			Correct:     int(accuracy * float64(total)),
			Total:       total,
			DurationMS:  int64(45_000 + 5_000*i),
			CompletedAt: &completedAt,
		})
		if err != nil {
			return fmt.Errorf("record attempt on %q: %w", d.name, err)
		}
	}
	return nil
}

func sampleLibrary() seedFolder {
	return seedFolder{
		decks: []seedDeck{
			{
				name:        "Spanish Basics",
				description: "Everyday words",
				csv:         "term,definition\nhola,hello\ngracias,thank you\nperro,dog\ngato,cat\n",
				history:     []float64{0.5, 0.75, 1},
			},
		},
		folders: []seedFolder{
			{
				name: "Biology",
				decks: []seedDeck{
					{
						name:        "Cell Structure",
						description: "Organelles and what they do",
						csv:         "question,answer\nPowerhouse of the cell?,Mitochondria\nSite of protein synthesis?,Ribosome\nControls what enters the cell?,Cell membrane\n",
						history:     []float64{0.33, 0.66},
					},
				},
				folders: []seedFolder{
					{
						name: "Genetics",
						decks: []seedDeck{
							{
								name: "Mendel",
								csv:  "front,back\nDominant allele notation?,Capital letter\nPhenotype ratio of Aa x Aa?,3:1\n",
							},
						},
					},
				},
			},
			{
				name: "Chemistry",
				decks: []seedDeck{
					{
						name: "Periodic Table",
						csv:  "H,Hydrogen\nHe,Helium\nLi,Lithium\nNa,Sodium\n",
					},
				},
			},
		},
	}
}
