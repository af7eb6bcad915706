// Package config manages configuration for the vidgram client.
//
// Configuration comes from four layers. From highest to lowest precedence:
// command-line flags (applied by the cli package), environment variables,
// the active profile in ~/.vidgram/config.yaml, and built-in defaults.
// A .env file in the working directory is loaded into the environment first.
//
// # Configuration Loading
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Profiles
//
// The user config file holds named profiles:
//
//	current-profile: staging
//	profiles:
//	  staging:
//	    host: https://staging.vidgram.example
//	    output: json
//	    store: redis
//	    page-size: 12
//
// # Environment Variables
//
//	VIDGRAM_API_URL          - backend base URL (default: http://localhost:8081)
//	VIDGRAM_API_TIMEOUT      - per-request timeout (default: 30s)
//	VIDGRAM_RATE_LIMIT       - requests per second, 0 disables (default: 10)
//	VIDGRAM_PAGE_SIZE        - collection page size (default: 6)
//	VIDGRAM_STORE            - token store: file, surreal, redis, memory
//	VIDGRAM_SESSION_FILE     - file store path (default: ~/.vidgram/session.yaml)
//	VIDGRAM_PASSPHRASE       - encrypts stored tokens when set
//	VIDGRAM_LOG_LEVEL        - debug, info, warn, error (default: warn)
//	VIDGRAM_METRICS_TEXTFILE - write client metrics here after each command
//	DB_HOST, DB_PORT, ...    - SurrealDB settings for the surreal store
//	REDIS_ADDR, ...          - Redis settings for the redis store
//	JWT_PUBLIC_KEY_PATH      - verify token signatures with this RSA key
package config
