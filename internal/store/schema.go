package store

// Schema v1 - index snapshot tables
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Source files named by the manifest, loaded or not
CREATE TABLE IF NOT EXISTS sources (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  path TEXT NOT NULL,
  kind TEXT NOT NULL,
  book TEXT,
  digest TEXT,
  size_bytes INTEGER,
  entries INTEGER,
  status TEXT NOT NULL,
  line INTEGER,
  error TEXT
);

CREATE TABLE IF NOT EXISTS books (
  code TEXT PRIMARY KEY,
  primary_book INTEGER DEFAULT 0,
  position INTEGER NOT NULL
);

-- One row per song, in discovery order
CREATE TABLE IF NOT EXISTS songs (
  book TEXT NOT NULL,
  number INTEGER NOT NULL,
  title TEXT,
  title_key TEXT,
  lyrics TEXT,
  position INTEGER NOT NULL,
  PRIMARY KEY (book, number)
);

-- Normalized title index; rank 0 is the song a title query resolves to
CREATE TABLE IF NOT EXISTS titles (
  title_key TEXT NOT NULL,
  rank INTEGER NOT NULL,
  book TEXT NOT NULL,
  number INTEGER NOT NULL,
  PRIMARY KEY (title_key, rank)
);

-- Fuzzy search corpus
CREATE TABLE IF NOT EXISTS corpus (
  book TEXT NOT NULL,
  number INTEGER NOT NULL,
  key TEXT NOT NULL,
  PRIMARY KEY (book, number)
);

-- Attachments. Song-keyed rows carry book/number, title-keyed rows carry title_key.
CREATE TABLE IF NOT EXISTS attachments (
  kind TEXT NOT NULL,
  book TEXT,
  number INTEGER,
  title_key TEXT,
  position INTEGER NOT NULL,
  label TEXT,
  ref TEXT NOT NULL
);
`

// Schema v2 - lookup indexes
const schemaV2 = `
CREATE INDEX IF NOT EXISTS idx_songs_title_key ON songs(title_key);
CREATE INDEX IF NOT EXISTS idx_attachments_song ON attachments(book, number, kind);
CREATE INDEX IF NOT EXISTS idx_attachments_title ON attachments(title_key, kind);
CREATE INDEX IF NOT EXISTS idx_sources_status ON sources(status);
`
