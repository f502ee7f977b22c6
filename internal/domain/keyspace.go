package domain

import (
	"strconv"
	"strings"
)

// DefaultKeyPrefix namespaces every key and index the service touches.
const DefaultKeyPrefix = "legalsearch:"

// Keyspace derives store keys and index names from a single prefix.
//
// Layout (prefix "legalsearch:"):
//
//	legalsearch:case:<name>              case JSON document
//	legalsearch:case:idx                 case FT index
//	legalsearch:chunk:<name>:<n>         case chunk JSON document (embedding + owner name)
//	legalsearch:chunk:idx                case chunk FT index
//	legalsearch:law:<title>              law JSON document
//	legalsearch:law:idx                  law FT index
//	legalsearch:passage:<title>:<n>      law passage JSON document (embedding + path)
//	legalsearch:passage:idx              passage FT index
//	legalsearch:rel:<category>:<depth>   adjacency set of values that have children
//	legalsearch:cache:<sha256>           cached operation result
type Keyspace struct {
	prefix string
}

// NewKeyspace creates a keyspace; an empty prefix falls back to DefaultKeyPrefix.
func NewKeyspace(prefix string) Keyspace {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return Keyspace{prefix: prefix}
}

// Prefix returns the namespace prefix.
func (k Keyspace) Prefix() string { return k.prefix }

// CasePrefix is the key prefix of case documents.
func (k Keyspace) CasePrefix() string { return k.prefix + "case:" }

// CaseKey returns the key of a case document.
func (k Keyspace) CaseKey(name string) string { return k.CasePrefix() + name }

// CaseIndex returns the name of the case FT index.
func (k Keyspace) CaseIndex() string { return k.prefix + "case:idx" }

// ChunkPrefix is the key prefix of case embedding chunks.
func (k Keyspace) ChunkPrefix() string { return k.prefix + "chunk:" }

// ChunkIndex returns the name of the case chunk FT index.
func (k Keyspace) ChunkIndex() string { return k.prefix + "chunk:idx" }

// LawPrefix is the key prefix of law documents.
func (k Keyspace) LawPrefix() string { return k.prefix + "law:" }

// LawKey returns the key of a law document.
func (k Keyspace) LawKey(title string) string { return k.LawPrefix() + title }

// LawIndex returns the name of the law FT index.
func (k Keyspace) LawIndex() string { return k.prefix + "law:idx" }

// PassagePrefix is the key prefix of law passage documents.
func (k Keyspace) PassagePrefix() string { return k.prefix + "passage:" }

// PassageIndex returns the name of the passage FT index.
func (k Keyspace) PassageIndex() string { return k.prefix + "passage:idx" }

// RelationKey returns the adjacency set for values of category at depth.
func (k Keyspace) RelationKey(category string, depth int) string {
	return k.prefix + "rel:" + category + ":" + strconv.Itoa(depth)
}

// CacheKey returns the cache entry key for a hashed canonical request.
func (k Keyspace) CacheKey(digest string) string { return k.prefix + "cache:" + digest }

// TrimCase strips the case key prefix, returning the case name.
func (k Keyspace) TrimCase(key string) string { return strings.TrimPrefix(key, k.CasePrefix()) }

// TrimLaw strips the law key prefix, returning the law title.
func (k Keyspace) TrimLaw(key string) string { return strings.TrimPrefix(key, k.LawPrefix()) }
