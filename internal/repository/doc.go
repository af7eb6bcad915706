// Package repository implements the durable token stores behind a session.
//
// Every store satisfies session.TokenStore (Get, Set, Clear) and is scoped
// to one CLI profile, so several logins can coexist.
//
// # Backends
//
//   - FileTokenStore: YAML file under ~/.vidgram (0600), optionally sealed
//   - SurrealTokenStore: session_token table in SurrealDB
//   - RedisTokenStore: a single key with an optional TTL
//   - MemoryTokenStore: process memory, for tests and one-shot runs
//
// # Encryption at Rest
//
// When a passphrase is configured the file store seals tokens with
// XChaCha20-Poly1305 under an argon2id-derived key. The profile scope is
// bound as associated data.
//
// # Example Usage
//
//	store := repository.NewFileTokenStore(repository.FileTokenStoreConfig{
//	    Path:  filepath.Join(home, ".vidgram", "session.yaml"),
//	    Scope: "default",
//	})
//	sess := session.New(session.Config{Store: store})
package repository
