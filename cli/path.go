package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/tagfilter/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// baseDatabase is the base name of the database file in the configuration
// directory, used when no database is given on the command line.
const baseDatabase = "items.yaml"

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the name used for the configuration and cache
// directories and the prefix of environment variables.
//
// It is the base name of the executable without extension, except:
//   - "__debug_bin<N>" (dlv debugger output) is replaced with [pkg.Name]
//   - leading dots are removed
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))

		id = regexp.MustCompile(`^__debug_bin\d+$`).ReplaceAllString(id, pkg.Name)
		id = regexp.MustCompile(`^\.+`).ReplaceAllString(id, "")

		if id == "" {
			return pkg.Name
		}

		return id
	},
)

// userDir returns the directory reported by lookup, falling back to
// $HOME/<hidden> and then the working directory.
func userDir(lookup func() (string, error), hidden string) string {
	if dir, err := lookup(); err == nil {
		return filepath.Join(dir, basePrefix())
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, hidden, basePrefix())
	}

	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, basePrefix())
	}

	return basePrefix()
}

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// cacheDir returns the directory used for transient files such as REPL
// history and profiles.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// configPath joins the configuration directory with elem.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

// dbPathEnv returns the name of the environment variable holding a list of
// database files separated by [os.PathListSeparator].
func dbPathEnv() string {
	return strings.ToUpper(basePrefix()) + "_DB_PATH"
}

// databasePath returns the database files to load: the files given on the
// command line followed by those listed in the environment variable named by
// [dbPathEnv]. Files that do not exist are skipped, and each file appears
// once. If neither names a file, the database in the configuration directory
// is used when it exists.
func databasePath(flags []string, environ func(string) string) []string {
	delim := string(os.PathListSeparator)

	path := mung.Make(
		mung.WithSubjectItems(environ(dbPathEnv())),
		mung.WithDelim(delim),
		mung.WithPrefixItems(flags...),
		mung.WithFilter(isFile),
	).String()

	var files []string

	for file := range strings.SplitSeq(path, delim) {
		if file != "" && !slices.Contains(files, file) {
			files = append(files, file)
		}
	}

	if len(files) == 0 && isFile(configPath(baseDatabase)) {
		files = append(files, configPath(baseDatabase))
	}

	return files
}

// isFile reports whether path names an existing regular file.
func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
