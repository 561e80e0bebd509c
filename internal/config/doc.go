// Package config defines configuration structures for the stash CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (STASH_ prefix, optionally from a dotenv file)
//   - YAML configuration file
//
// Later sources override earlier ones: defaults, then the file, then the
// environment, then flags.
//
// # Structure
//
//	type Config struct {
//	    Root          string      // local directory holding both areas
//	    Bucket        string      // gocloud bucket URL used instead of Root
//	    StoreDir      string
//	    TempDir       string
//	    Records       string      // JSON record index
//	    Attribute     string
//	    FileMode      FileMode    // octal, applied to staged files
//	    MaxUploadSize ByteSize    // e.g. "32MiB"
//	    LogLevel      string
//	    Redis         RedisConfig
//	    HTTP          HTTPConfig
//	}
package config
