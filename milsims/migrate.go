package milsims

import (
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

const lockFunction = `
CREATE OR REPLACE FUNCTION try_acquire_refresh_lock(p_key text, p_min_interval_seconds integer)
RETURNS boolean
LANGUAGE plpgsql
AS $$
DECLARE
  acquired boolean;
BEGIN
  INSERT INTO refresh_locks AS l (key, last_run_at)
  VALUES (p_key, NOW())
  ON CONFLICT (key) DO UPDATE
    SET last_run_at = NOW()
    WHERE l.last_run_at < NOW() - make_interval(secs => p_min_interval_seconds)
  RETURNING true INTO acquired;

  RETURN COALESCE(acquired, false);
END;
$$;
`

// Migrate creates or updates the tables and functions of the directory
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(Milsim{}, Platform{}, RefreshLock{}).Error
	if err != nil {
		return errors.Wrap(err, "cannot migrate milsim tables")
	}

	_, err = db.DB().Exec(lockFunction)
	if err != nil {
		return errors.Wrap(err, "cannot create refresh lock function")
	}

	return nil
}
