package document

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/paulmach/orb/encoding/wkt"
	_ "modernc.org/sqlite"

	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS levels (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	elevation REAL NOT NULL,
	seq INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS rooms (
	id INTEGER PRIMARY KEY,
	number TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	level_id INTEGER NOT NULL DEFAULT 0,
	phase TEXT NOT NULL DEFAULT '',
	base_elevation REAL NOT NULL DEFAULT 0,
	height REAL NOT NULL DEFAULT 0,
	footprint TEXT NOT NULL DEFAULT '',
	seq INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS elements (
	id INTEGER PRIMARY KEY,
	category TEXT NOT NULL,
	bbox TEXT,
	location TEXT,
	level_id INTEGER NOT NULL DEFAULT 0,
	room_id INTEGER NOT NULL DEFAULT 0,
	from_room_id INTEGER NOT NULL DEFAULT 0,
	to_room_id INTEGER NOT NULL DEFAULT 0,
	group_id INTEGER NOT NULL DEFAULT 0,
	seq INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS properties (
	element_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	kind TEXT NOT NULL,
	read_only INTEGER NOT NULL DEFAULT 0,
	has_value INTEGER NOT NULL DEFAULT 0,
	text_value TEXT NOT NULL DEFAULT '',
	int_value INTEGER NOT NULL DEFAULT 0,
	real_value REAL NOT NULL DEFAULT 0,
	ref_value INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (element_id, name)
);
CREATE TABLE IF NOT EXISTS schemas (
	category TEXT NOT NULL,
	name TEXT NOT NULL,
	kind TEXT NOT NULL,
	read_only INTEGER NOT NULL DEFAULT 0,
	seq INTEGER NOT NULL,
	PRIMARY KEY (category, name)
);
CREATE TABLE IF NOT EXISTS group_templates (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	seq INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS group_instances (
	id INTEGER PRIMARY KEY,
	template_id INTEGER NOT NULL,
	seq INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS group_members (
	owner_kind TEXT NOT NULL,
	owner_id INTEGER NOT NULL,
	member_id INTEGER NOT NULL,
	seq INTEGER NOT NULL,
	PRIMARY KEY (owner_kind, owner_id, seq)
);
`

const (
	ownerTemplate = "template"
	ownerInstance = "instance"
)

// SQLite is a document stored in a SQLite database. Reads are served from the model
// loaded at open time; a session is one SQL transaction and each checkpoint releases
// and re-opens a savepoint inside it.
type SQLite struct {
	*Memory
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the SQLite model at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := openSQLiteDB(path)
	if err != nil {
		return nil, err
	}
	f, err := loadSQLite(context.Background(), db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	mem, err := NewMemory(f)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf(messages.DocumentOpenSQLiteFmt, path, err)
	}
	return &SQLite{Memory: mem, db: db, path: path}, nil
}

func openSQLiteDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf(messages.DocumentOpenSQLiteFmt, path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA journal_mode = WAL"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf(messages.DocumentOpenSQLiteFmt, path, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf(messages.DocumentSQLiteSchemaFmt, err)
	}
	return db, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Import replaces the database contents with f and reloads the read side.
func (s *SQLite) Import(ctx context.Context, f File) error {
	mem, err := NewMemory(f)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf(messages.DocumentSQLiteImportFmt, s.path, err)
	}
	if err := importFile(ctx, tx, f); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf(messages.DocumentSQLiteImportFmt, s.path, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf(messages.DocumentSQLiteImportFmt, s.path, err)
	}
	s.Memory = mem
	return nil
}

func importFile(ctx context.Context, tx *sql.Tx, f File) error {
	for _, table := range []string{"meta", "levels", "rooms", "elements", "properties", "schemas", "group_templates", "group_instances", "group_members"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	meta := map[string]string{
		"host_version": strconv.Itoa(f.HostVersion),
		"active_phase": f.ActivePhase,
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return err
		}
	}
	for i, l := range f.Levels {
		if _, err := tx.ExecContext(ctx, `INSERT INTO levels (id, name, elevation, seq) VALUES (?, ?, ?, ?)`,
			int64(l.ID), l.Name, l.Elevation, i); err != nil {
			return err
		}
	}
	for i, r := range f.Rooms {
		footprint := ""
		if len(r.Footprint) > 0 {
			footprint = wkt.MarshalString(r.Footprint)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO rooms (id, number, name, level_id, phase, base_elevation, height, footprint, seq) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			int64(r.ID), r.Number, r.Name, int64(r.LevelID), r.Phase, r.BaseElevation, r.Height, footprint, i); err != nil {
			return err
		}
	}
	for cat, defs := range f.Schemas {
		for i, d := range defs {
			if _, err := tx.ExecContext(ctx, `INSERT INTO schemas (category, name, kind, read_only, seq) VALUES (?, ?, ?, ?, ?)`,
				string(model.NormalizeCategory(string(cat))), d.Name, string(d.Kind), d.ReadOnly, i); err != nil {
				return err
			}
		}
	}
	for i, el := range f.Elements {
		bbox, err := nullableJSON(el.BBox)
		if err != nil {
			return err
		}
		location, err := json.Marshal(el.Location)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO elements (id, category, bbox, location, level_id, room_id, from_room_id, to_room_id, group_id, seq) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			int64(el.ID), string(model.NormalizeCategory(string(el.Category))), bbox, string(location),
			int64(el.LevelID), int64(el.RoomID), int64(el.FromRoomID), int64(el.ToRoomID), int64(el.GroupID), i); err != nil {
			return err
		}
		for _, name := range sortedPropertyNames(&el) {
			if err := upsertProperty(ctx, tx, el.ID, *el.Properties[name]); err != nil {
				return err
			}
		}
	}
	for i, t := range f.GroupTemplates {
		if _, err := tx.ExecContext(ctx, `INSERT INTO group_templates (id, name, seq) VALUES (?, ?, ?)`, int64(t.ID), t.Name, i); err != nil {
			return err
		}
		if err := insertMembers(ctx, tx, ownerTemplate, t.ID, t.MemberIDs); err != nil {
			return err
		}
	}
	for i, g := range f.GroupInstances {
		if _, err := tx.ExecContext(ctx, `INSERT INTO group_instances (id, template_id, seq) VALUES (?, ?, ?)`, int64(g.ID), int64(g.TemplateID), i); err != nil {
			return err
		}
		if err := insertMembers(ctx, tx, ownerInstance, g.ID, g.MemberIDs); err != nil {
			return err
		}
	}
	return nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, kind string, owner model.ElementID, members []model.ElementID) error {
	for i, m := range members {
		if _, err := tx.ExecContext(ctx, `INSERT INTO group_members (owner_kind, owner_id, member_id, seq) VALUES (?, ?, ?, ?)`,
			kind, int64(owner), int64(m), i); err != nil {
			return err
		}
	}
	return nil
}

func nullableJSON(v *model.BoundingBox) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertProperty(ctx context.Context, db execer, id model.ElementID, p model.Property) error {
	_, err := db.ExecContext(ctx, `INSERT INTO properties (element_id, name, kind, read_only, has_value, text_value, int_value, real_value, ref_value)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (element_id, name) DO UPDATE SET
	has_value = excluded.has_value,
	text_value = excluded.text_value,
	int_value = excluded.int_value,
	real_value = excluded.real_value,
	ref_value = excluded.ref_value`,
		int64(id), p.Name, string(p.Kind), p.ReadOnly, p.HasValue, p.Text, p.Integer, p.Double, int64(p.Ref))
	return err
}

func loadSQLite(ctx context.Context, db *sql.DB) (File, error) {
	var f File
	if err := loadMeta(ctx, db, &f); err != nil {
		return File{}, err
	}
	if err := loadLevels(ctx, db, &f); err != nil {
		return File{}, err
	}
	if err := loadRooms(ctx, db, &f); err != nil {
		return File{}, err
	}
	if err := loadSchemas(ctx, db, &f); err != nil {
		return File{}, err
	}
	if err := loadElements(ctx, db, &f); err != nil {
		return File{}, err
	}
	if err := loadGroups(ctx, db, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

func loadMeta(ctx context.Context, db *sql.DB, f *File) error {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "meta", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "meta", err)
		}
		switch key {
		case "host_version":
			v, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf(messages.DocumentSQLiteDecodeFmt, "host_version", "meta", err)
			}
			f.HostVersion = v
		case "active_phase":
			f.ActivePhase = value
		}
	}
	return rows.Err()
}

func loadLevels(ctx context.Context, db *sql.DB, f *File) error {
	rows, err := db.QueryContext(ctx, `SELECT id, name, elevation FROM levels ORDER BY seq`)
	if err != nil {
		return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "levels", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var l model.Level
		if err := rows.Scan(&l.ID, &l.Name, &l.Elevation); err != nil {
			return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "levels", err)
		}
		f.Levels = append(f.Levels, l)
	}
	return rows.Err()
}

func loadRooms(ctx context.Context, db *sql.DB, f *File) error {
	rows, err := db.QueryContext(ctx, `SELECT id, number, name, level_id, phase, base_elevation, height, footprint FROM rooms ORDER BY seq`)
	if err != nil {
		return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "rooms", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var r model.Room
		var footprint string
		if err := rows.Scan(&r.ID, &r.Number, &r.Name, &r.LevelID, &r.Phase, &r.BaseElevation, &r.Height, &footprint); err != nil {
			return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "rooms", err)
		}
		if footprint != "" {
			poly, err := wkt.UnmarshalPolygon(footprint)
			if err != nil {
				return fmt.Errorf(messages.DocumentSQLiteDecodeFmt, "footprint", "room "+r.ID.String(), err)
			}
			r.Footprint = poly
		}
		f.Rooms = append(f.Rooms, r)
	}
	return rows.Err()
}

func loadSchemas(ctx context.Context, db *sql.DB, f *File) error {
	rows, err := db.QueryContext(ctx, `SELECT category, name, kind, read_only FROM schemas ORDER BY category, seq`)
	if err != nil {
		return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "schemas", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var cat string
		var d model.PropertyDef
		if err := rows.Scan(&cat, &d.Name, &d.Kind, &d.ReadOnly); err != nil {
			return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "schemas", err)
		}
		if f.Schemas == nil {
			f.Schemas = make(map[model.Category][]model.PropertyDef)
		}
		f.Schemas[model.Category(cat)] = append(f.Schemas[model.Category(cat)], d)
	}
	return rows.Err()
}

func loadElements(ctx context.Context, db *sql.DB, f *File) error {
	rows, err := db.QueryContext(ctx, `SELECT id, category, bbox, location, level_id, room_id, from_room_id, to_room_id, group_id FROM elements ORDER BY seq`)
	if err != nil {
		return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "elements", err)
	}
	index := make(map[model.ElementID]int)
	for rows.Next() {
		var el model.Element
		var bbox, location sql.NullString
		if err := rows.Scan(&el.ID, &el.Category, &bbox, &location, &el.LevelID, &el.RoomID, &el.FromRoomID, &el.ToRoomID, &el.GroupID); err != nil {
			_ = rows.Close()
			return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "elements", err)
		}
		if bbox.Valid {
			el.BBox = &model.BoundingBox{}
			if err := json.Unmarshal([]byte(bbox.String), el.BBox); err != nil {
				_ = rows.Close()
				return fmt.Errorf(messages.DocumentSQLiteDecodeFmt, "bbox", "element "+el.ID.String(), err)
			}
		}
		if location.Valid && location.String != "" {
			if err := json.Unmarshal([]byte(location.String), &el.Location); err != nil {
				_ = rows.Close()
				return fmt.Errorf(messages.DocumentSQLiteDecodeFmt, "location", "element "+el.ID.String(), err)
			}
		}
		index[el.ID] = len(f.Elements)
		f.Elements = append(f.Elements, el)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	_ = rows.Close()

	props, err := db.QueryContext(ctx, `SELECT element_id, name, kind, read_only, has_value, text_value, int_value, real_value, ref_value FROM properties`)
	if err != nil {
		return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "properties", err)
	}
	defer func() { _ = props.Close() }()
	for props.Next() {
		var id model.ElementID
		var p model.Property
		if err := props.Scan(&id, &p.Name, &p.Kind, &p.ReadOnly, &p.HasValue, &p.Text, &p.Integer, &p.Double, &p.Ref); err != nil {
			return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "properties", err)
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		el := &f.Elements[i]
		if el.Properties == nil {
			el.Properties = make(map[string]*model.Property)
		}
		el.Properties[p.Name] = &p
	}
	return props.Err()
}

func loadGroups(ctx context.Context, db *sql.DB, f *File) error {
	members, err := loadMembers(ctx, db)
	if err != nil {
		return err
	}
	rows, err := db.QueryContext(ctx, `SELECT id, name FROM group_templates ORDER BY seq`)
	if err != nil {
		return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "group_templates", err)
	}
	for rows.Next() {
		var t model.GroupTemplate
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			_ = rows.Close()
			return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "group_templates", err)
		}
		t.MemberIDs = members[ownerTemplate][t.ID]
		f.GroupTemplates = append(f.GroupTemplates, t)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	_ = rows.Close()

	inst, err := db.QueryContext(ctx, `SELECT id, template_id FROM group_instances ORDER BY seq`)
	if err != nil {
		return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "group_instances", err)
	}
	defer func() { _ = inst.Close() }()
	for inst.Next() {
		var g model.GroupInstance
		if err := inst.Scan(&g.ID, &g.TemplateID); err != nil {
			return fmt.Errorf(messages.DocumentSQLiteQueryFmt, "group_instances", err)
		}
		g.MemberIDs = members[ownerInstance][g.ID]
		f.GroupInstances = append(f.GroupInstances, g)
	}
	return inst.Err()
}

func loadMembers(ctx context.Context, db *sql.DB) (map[string]map[model.ElementID][]model.ElementID, error) {
	rows, err := db.QueryContext(ctx, `SELECT owner_kind, owner_id, member_id FROM group_members ORDER BY owner_kind, owner_id, seq`)
	if err != nil {
		return nil, fmt.Errorf(messages.DocumentSQLiteQueryFmt, "group_members", err)
	}
	defer func() { _ = rows.Close() }()
	out := map[string]map[model.ElementID][]model.ElementID{
		ownerTemplate: {},
		ownerInstance: {},
	}
	for rows.Next() {
		var kind string
		var owner, member model.ElementID
		if err := rows.Scan(&kind, &owner, &member); err != nil {
			return nil, fmt.Errorf(messages.DocumentSQLiteQueryFmt, "group_members", err)
		}
		if out[kind] == nil {
			continue
		}
		out[kind][owner] = append(out[kind][owner], member)
	}
	return out, rows.Err()
}

const chunkSavepoint = "sfill_chunk"

// Begin implements Document. The SQL transaction and the in-memory session open
// together and close together.
func (s *SQLite) Begin(ctx context.Context, name string) (Session, error) {
	sess, err := s.Memory.Begin(ctx, name)
	if err != nil {
		return nil, err
	}
	inner := sess.(*memorySession)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		_ = inner.Rollback(ctx)
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+chunkSavepoint); err != nil {
		_ = tx.Rollback()
		_ = inner.Rollback(ctx)
		return nil, err
	}
	return &sqliteSession{inner: inner, tx: tx}, nil
}

type sqliteSession struct {
	inner *memorySession
	tx    *sql.Tx
}

// SetProperty applies the write to the working copy, then to the database. A write
// the database refuses is reverted in the working copy.
func (s *sqliteSession) SetProperty(ctx context.Context, id model.ElementID, p model.Property) error {
	var prev model.Property
	if el, ok := s.inner.working[id]; ok {
		if cur, ok := el.Property(p.Name); ok {
			prev = *cur
		}
	}
	if err := s.inner.SetProperty(ctx, id, p); err != nil {
		return err
	}
	res, err := s.tx.ExecContext(ctx, `UPDATE properties SET has_value = ?, text_value = ?, int_value = ?, real_value = ?, ref_value = ? WHERE element_id = ? AND name = ?`,
		p.HasValue, p.Text, p.Integer, p.Double, int64(p.Ref), int64(id), p.Name)
	if err == nil {
		var n int64
		if n, err = res.RowsAffected(); err == nil && n == 0 {
			err = fmt.Errorf("%w: "+messages.DocumentPropertyMissingFmt, ErrPropertyMissing, id, p.Name)
		}
	}
	if err != nil {
		s.inner.undo(id, p.Name, prev)
		return err
	}
	return nil
}

func (s *sqliteSession) Checkpoint(ctx context.Context) error {
	if err := s.inner.Checkpoint(ctx); err != nil {
		return err
	}
	if _, err := s.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+chunkSavepoint); err != nil {
		return err
	}
	_, err := s.tx.ExecContext(ctx, "SAVEPOINT "+chunkSavepoint)
	return err
}

func (s *sqliteSession) Commit(ctx context.Context) error {
	if _, err := s.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+chunkSavepoint); err != nil {
		return err
	}
	if err := s.tx.Commit(); err != nil {
		return err
	}
	return s.inner.Commit(ctx)
}

func (s *sqliteSession) Rollback(ctx context.Context) error {
	err := s.tx.Rollback()
	if innerErr := s.inner.Rollback(ctx); innerErr != nil {
		return innerErr
	}
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func (s *sqliteSession) SetFailureHandler(h FailureHandler) {
	s.inner.SetFailureHandler(h)
}

func (s *sqliteSession) Warnings() []Failure {
	return s.inner.Warnings()
}
