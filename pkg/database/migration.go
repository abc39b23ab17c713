package database

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pkg/errors"
)

// migrationLogger routes golang-migrate output through the service logger
type migrationLogger struct {
	ectologger.Logger
}

func (l migrationLogger) Verbose() bool {
	return true
}

func (l migrationLogger) Printf(format string, v ...any) {
	l.Infof(format, v...)
}

// MigrationService applies the schema migrations under MigrationFolderPath
// at boot. Version pins a target version (0 means latest), Force stamps a
// version without running anything, and AutoRollback reverts a dirty
// database to the previous version on failure.
type MigrationService struct {
	config *MigrationConfig
	logger ectologger.Logger
}

type MigrationConfig struct {
	MigrationFolderPath string
	Version             uint
	Force               int
	AutoRollback        bool
}

// NewMigrationService creates a new migration service
func NewMigrationService(logger ectologger.Logger, config *MigrationConfig) *MigrationService {
	return &MigrationService{
		config: config,
		logger: logger,
	}
}

// resolveMigrationFolder tries the configured path as given, then relative
// to the working directory.
func (ms *MigrationService) resolveMigrationFolder() string {
	folder := ms.config.MigrationFolderPath
	if _, err := os.Stat(folder); err == nil {
		return folder
	}
	workingDirectory, _ := os.Getwd()
	if !strings.HasSuffix(workingDirectory, "/") {
		workingDirectory += "/"
	}
	return workingDirectory + folder
}

// Migrate runs the migration sequence against an open database driver
func (ms *MigrationService) Migrate(databaseName string, driver database.Driver) error {
	folder := ms.resolveMigrationFolder()
	if _, err := os.Stat(folder); err != nil {
		return errors.Wrap(err, fmt.Sprintf("migration folder %s does not exist", folder))
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+folder, databaseName, driver)
	if err != nil {
		ms.logger.WithError(err).Error("Failed to create migrate instance")
		return err
	}
	m.Log = migrationLogger{Logger: ms.logger}

	return ms.run(m)
}

func (ms *MigrationService) run(m *migrate.Migrate) error {
	if ms.config.Force != 0 {
		if err := m.Force(ms.config.Force); err != nil {
			ms.logger.WithError(err).Errorf("Failed to force database to version %d", ms.config.Force)
			return err
		}
	}

	previousVersion, _, err := m.Version()
	if err != nil {
		previousVersion = 0
	}

	start := time.Now()
	var migrationErr error
	if ms.config.Version != 0 {
		migrationErr = m.Migrate(ms.config.Version)
	} else {
		migrationErr = m.Up()
	}
	ms.logger.Infof("Database migrations completed in %v", time.Since(start))

	return ms.handleMigrationError(m, migrationErr, previousVersion)
}

func (ms *MigrationService) handleMigrationError(m *migrate.Migrate, err error, previousVersion uint) error {
	if err == nil {
		ms.logger.Info("Successfully applied migrations")
		return nil
	}
	if err == migrate.ErrNoChange {
		ms.logger.Info("No new migrations to apply")
		return nil
	}

	// the recorded version can outrun the folder after a release rollback;
	// stamp the latest version the folder actually has
	if strings.Contains(err.Error(), "no migration found for version") {
		latest, latestErr := latestVersionInFolder(ms.resolveMigrationFolder())
		if latestErr != nil {
			ms.logger.WithError(latestErr).Error("Failed to get latest migration version")
			return err
		}
		ms.logger.Warnf("No migration found for version %d. Forcing database to version %d", previousVersion, latest)
		if forceErr := m.Force(latest); forceErr != nil {
			ms.logger.WithError(forceErr).Errorf("Failed to force database to version %d", latest)
			return forceErr
		}
		return nil
	}

	ms.logger.WithError(err).Errorf("Migration failed with error: %v", err)

	version, dirty, versionErr := m.Version()
	if versionErr != nil && versionErr != migrate.ErrNilVersion {
		ms.logger.WithError(versionErr).Error("Failed to get current migration version")
		return err
	}

	if ms.config.AutoRollback && dirty {
		if previousVersion == 0 {
			previousVersion = version - 1
		}
		ms.logger.Warnf("Database is dirty at version %d. Reverting to version %d", version, previousVersion)
		if forceErr := m.Force(int(previousVersion)); forceErr != nil {
			ms.logger.WithError(forceErr).Errorf("Failed to force database to version %d", previousVersion)
			return forceErr
		}
		// still fail startup; the migration itself did not apply
		return err
	}

	ms.logger.WithError(err).Errorf("Failed to apply migrations. Database version is dirty=%t at version %d", dirty, version)
	return err
}

func latestVersionInFolder(folderPath string) (int, error) {
	files, err := os.ReadDir(folderPath)
	if err != nil {
		return 0, err
	}

	re := regexp.MustCompile(`^(\d+)_.*\.up\.sql$`)
	var versions []int
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		matches := re.FindStringSubmatch(file.Name())
		if len(matches) > 1 {
			version, err := strconv.Atoi(matches[1])
			if err != nil {
				return 0, err
			}
			versions = append(versions, version)
		}
	}
	if len(versions) == 0 {
		return 0, fmt.Errorf("no migration files found")
	}

	sort.Ints(versions)
	return versions[len(versions)-1], nil
}
