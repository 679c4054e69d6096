package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	// getEnv treats empty as unset, so this shields the assertions from the
	// ambient process environment
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Errorf("StorageDriver = %q, want %q", cfg.StorageDriver, StorageMemory)
	}
}

func TestLoadConstructsCognitoURLs(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("USER_POOL_ID", "eu-west-1_Example")

	cfg := Load()

	wantIssuer := "https://cognito-idp.eu-west-1.amazonaws.com/eu-west-1_Example"
	if cfg.Issuer != wantIssuer {
		t.Errorf("Issuer = %q, want %q", cfg.Issuer, wantIssuer)
	}
	if cfg.JWKSURL != wantIssuer+"/.well-known/jwks.json" {
		t.Errorf("JWKSURL = %q", cfg.JWKSURL)
	}
}

func TestLoadStorageDriverOverride(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", StorageDynamoDB)
	t.Setenv("NOTEBOOKS_TABLE", "prod-notebooks")

	cfg := Load()

	if cfg.StorageDriver != StorageDynamoDB {
		t.Errorf("StorageDriver = %q, want %q", cfg.StorageDriver, StorageDynamoDB)
	}
	if cfg.NotebooksTable != "prod-notebooks" {
		t.Errorf("NotebooksTable = %q, want prod-notebooks", cfg.NotebooksTable)
	}
}
