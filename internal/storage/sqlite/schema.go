// ABOUTME: SQLite database schema for the course index
// ABOUTME: Catalog tables (courses, lessons) and content table (chunks) with embedded vectors
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Key/value settings such as the embedding model that produced stored vectors
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Course catalog, one row per course title with its title embedding
CREATE TABLE IF NOT EXISTS courses (
    title TEXT PRIMARY KEY,
    course_link TEXT NOT NULL DEFAULT '',
    instructor TEXT NOT NULL DEFAULT '',
    source_path TEXT NOT NULL DEFAULT '',
    source_hash TEXT NOT NULL DEFAULT '',
    embedding BLOB,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Lessons belong to a course
CREATE TABLE IF NOT EXISTS lessons (
    course_title TEXT NOT NULL REFERENCES courses(title) ON DELETE CASCADE,
    lesson_number INTEGER NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    link TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (course_title, lesson_number)
);

-- Chunked course content; lesson_number is NULL for documents without lesson markers
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    course_title TEXT NOT NULL REFERENCES courses(title) ON DELETE CASCADE,
    lesson_number INTEGER,
    chunk_index INTEGER NOT NULL,
    content TEXT NOT NULL,
    embedding BLOB NOT NULL
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_courses_source ON courses(source_path);
CREATE INDEX IF NOT EXISTS idx_chunks_course ON chunks(course_title, lesson_number);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
