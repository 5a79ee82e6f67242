package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matches %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestOffersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders_and_offers.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS offers",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"FOREIGN KEY (artist_id) REFERENCES users(id) ON DELETE CASCADE",
		"CHECK (accepted_at IS NULL OR declined_at IS NULL)",
		"idx_offers_order_artist ON offers (order_id, artist_id)",
		"FOREIGN KEY (accepted_offer_id) REFERENCES offers(id) ON DELETE SET NULL",
		"DROP TABLE IF EXISTS offers",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestTagsMigrationEnforcesLowercase(t *testing.T) {
	content := readMigration(t, "*_create_tags_and_files.sql")

	checks := []string{
		"CHECK (title = lower(title))",
		"ux_tags_title ON tags (title)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestReportsMigrationEnforcesSingleTarget(t *testing.T) {
	content := readMigration(t, "*_create_reports_and_notifications.sql")

	if !strings.Contains(content, "CHECK (num_nonnulls(user_id, order_id, masterpiece_id) = 1)") {
		t.Error("missing single-target check constraint")
	}
}
