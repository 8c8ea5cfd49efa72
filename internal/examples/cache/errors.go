//go:build errgen

package cache

import (
	"errgen/errkit"
)

//go:generate go run errgen/cmd/errgen generate $GOFILE

// StoreError describes failures of the on-disk store.
//
//errgen:enum
type StoreError struct {
	//errgen:error "cannot read {path}"
	//errgen:help "check permissions on {path}"
	Read struct {
		path   string
		source error `errgen:"source"`
	}
	//errgen:error "cannot write {path}"
	Write struct {
		path   string
		source error `errgen:"source"`
	}
	//errgen:error "entry {key:q} is corrupt ({len(data)} bytes, limit {maxEntry})"
	Corrupt struct {
		key  string
		data []byte
	}
}

// CacheError is returned by Cache methods.
//
//errgen:enum
//errgen:top_level
type CacheError struct {
	//errgen:error "cannot load {key:q}"
	//errgen:help "run `cache fsck` to rebuild the index"
	Load struct {
		key      string
		source   StoreError      `errgen:"source"`
		location errkit.Location `errgen:"location"`
	}
	//errgen:error "cache is closed"
	Closed struct {
		location errkit.Location `errgen:"location"`
	}
	//errgen:error "key {key:q} not found"
	NotFound struct {
		key string
	}
}
