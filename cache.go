package yuvdither

import (
	"database/sql"
	"fmt"

	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3" // register sqlite3 driver
)

// Cache stores encoded textures keyed by the SHA-1 of their source file.
// Payloads are compressed with zstd.
type Cache struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCache opens or creates the cache database in file.
func NewCache(file string) (*Cache, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS texture (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, size INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	return &Cache{
		db:  db,
		enc: enc,
		dec: dec,
	}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	c.dec.Close()
	if err := c.enc.Close(); err != nil {
		c.db.Close()
		return err
	}
	return c.db.Close()
}

// Lookup returns the texture stored for sha, or nil if there is none.
func (c *Cache) Lookup(sha string) ([]byte, error) {
	var size int
	var data []byte
	switch err := c.db.QueryRow("SELECT size, data FROM texture WHERE sha1 = ?", sha).Scan(&size, &data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		if size < 0 {
			return nil, fmt.Errorf("cache: entry %s has invalid size %d", sha, size)
		}
		b, err := c.dec.DecodeAll(data, nil)
		if err != nil {
			return nil, err
		}
		if len(b) != size {
			return nil, fmt.Errorf("cache: entry %s is %d bytes, expected %d", sha, len(b), size)
		}
		return b, nil
	default:
		return nil, err
	}
}

// Store adds or replaces the texture for sha.
func (c *Cache) Store(sha string, b []byte) error {
	if _, err := c.db.Exec("INSERT OR REPLACE INTO texture (sha1, size, data) VALUES (?, ?, ?)", sha, len(b), c.enc.EncodeAll(b, nil)); err != nil {
		return err
	}
	return nil
}

// Len returns the number of stored textures.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM texture").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Purge removes every stored texture.
func (c *Cache) Purge() error {
	if _, err := c.db.Exec("DELETE FROM texture"); err != nil {
		return err
	}
	return nil
}
