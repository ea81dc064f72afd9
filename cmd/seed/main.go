// Command seed populates the feed store with generated or fixture data.
package main

import (
	"context"
	"flag"
	"os"

	"konishi/internal/config"
	"konishi/internal/database"
	"konishi/internal/observability"
	"konishi/internal/seed"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	maxComments := flag.Int("comments", defaults.MaxCommentsPerPost, "Maximum comments per post")
	maxReplies := flag.Int("replies", defaults.MaxRepliesPerComment, "Maximum replies per comment")
	likeChance := flag.Float64("like-chance", defaults.LikeChance, "Probability that a user likes an item")
	seedValue := flag.Int64("seed", 0, "Random seed, 0 for a random run")
	fixtures := flag.String("fixtures", "", "Load this YAML fixture file instead of generating data")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("fast", false, "Store plain passwords instead of bcrypt hashes")
	dryRun := flag.Bool("dry-run", false, "Generate data without writing to the database")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogging(cfg.Env, cfg.LogLevel)

	if cfg.IsProduction() {
		log.Fatal().Msg("Refusing to seed a production database")
	}

	color.HiGreen("Database Seeder")
	color.HiBlack("==================")

	opts := defaults
	opts.NumUsers = *numUsers
	opts.NumPosts = *numPosts
	opts.MaxCommentsPerPost = *maxComments
	opts.MaxRepliesPerComment = *maxReplies
	opts.LikeChance = *likeChance
	opts.Seed = *seedValue
	opts.SkipBcrypt = *skipBcrypt
	opts.DryRun = *dryRun

	ctx := context.Background()

	var s *seed.Seeder
	if opts.DryRun {
		s = seed.NewSeeder(nil, opts)
	} else {
		db, err := database.Connect(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		s = seed.NewSeeder(db, opts)
	}

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatal().Err(err).Msg("Cleanup failed")
		}
	}

	var sum *seed.Summary
	if *fixtures != "" {
		fx, ferr := seed.LoadFixturesFile(*fixtures)
		if ferr != nil {
			log.Fatal().Err(ferr).Msg("Failed to load fixtures")
		}
		sum, err = s.ApplyFixtures(ctx, fx)
	} else {
		sum, err = s.Run(ctx)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	color.HiGreen("All done! Summary:")
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(sum); err != nil {
		log.Error().Err(err).Msg("Failed to print summary")
	}
	_ = enc.Close()

	if !opts.SkipBcrypt {
		color.HiBlack("All seeded users have the password: %s\n", seed.DefaultPassword)
	}
}
