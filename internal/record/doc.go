// Package record provides the owning records of the stash CLI.
//
// An Entry holds one attribute value: empty, a staging key, or a stored
// file name. Stores persist entries by id, either in a JSON file
// (FileStore) or in a Redis hash (RedisStore).
package record
