package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const blogColumns = `id, title, content, author_id, author_name, author_avatar, tags, image,
	published, featured, view_count, like_count, likes, created_at, updated_at, version`

// PostgresStore keeps blogs in the postgres "blogs" table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (*Blog, error) {
	var (
		b         Blog
		published sql.NullBool
		updatedAt sql.NullTime
	)

	err := row.Scan(&b.ID, &b.Title, &b.Content, &b.Author.ID, &b.Author.Name, &b.Author.AvatarURL,
		pq.Array(&b.Tags), &b.Image, &published, &b.Featured, &b.ViewCount, &b.LikeCount,
		pq.Array(&b.Likes), &b.CreatedAt, &updatedAt, &b.Version)
	if err != nil {
		return nil, err
	}

	if published.Valid {
		b.Published = Bool(published.Bool)
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		b.UpdatedAt = &t
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Likes == nil {
		b.Likes = []string{}
	}

	return &b, nil
}

// buildSelect translates q into a SELECT statement and its arguments.
func buildSelect(q Query) (string, []any) {
	var (
		conds []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, p := range q.Predicates {
		switch p.Field {
		case FieldPublished:
			conds = append(conds, "COALESCE(published, TRUE) = "+arg(p.Value))
		case FieldFeatured:
			conds = append(conds, "featured = "+arg(p.Value))
		case FieldAuthorID:
			conds = append(conds, "author_id = "+arg(p.Value))
		case FieldTags:
			conds = append(conds, "tags && "+arg(pq.Array(p.Value)))
		}
	}

	o := q.order()
	column, cmp, dir := "created_at", "<", "DESC"
	if o.Field == FieldTitle {
		column = `title COLLATE "C"`
	}
	if o.Direction == Asc {
		cmp, dir = ">", "ASC"
	}

	if c := q.StartAfter; c != nil {
		var v any = c.createdAt
		if o.Field == FieldTitle {
			v = c.title
		}
		pv, pid := arg(v), arg(c.id)
		conds = append(conds, fmt.Sprintf("(%s %s %s OR (%s = %s AND id > %s))", column, cmp, pv, column, pv, pid))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + blogColumns + " FROM blogs")
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(fmt.Sprintf(" ORDER BY %s %s, id ASC", column, dir))
	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(q.Limit))
	}

	return sb.String(), args
}

func (s *PostgresStore) Find(ctx context.Context, q Query) ([]Blog, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	query, args := buildSelect(q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`

	b, err := scanBlog(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return b, nil
}

func (s *PostgresStore) Insert(ctx context.Context, b *Blog) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Likes == nil {
		b.Likes = []string{}
	}

	query := `
		INSERT INTO blogs (id, title, content, author_id, author_name, author_avatar, tags, image, published, featured, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, NOW()))
		RETURNING created_at, version`

	var createdAt sql.NullTime
	if !b.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: b.CreatedAt, Valid: true}
	}

	args := []any{
		b.ID, b.Title, b.Content, b.Author.ID, b.Author.Name, b.Author.AvatarURL,
		pq.Array(b.Tags), b.Image, nullBool(b.Published), b.Featured, createdAt,
	}

	return s.db.QueryRowContext(ctx, query, args...).Scan(&b.CreatedAt, &b.Version)
}

func (s *PostgresStore) Update(ctx context.Context, b *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, content = $2, tags = $3, image = $4, published = $5, featured = $6,
			updated_at = NOW(), version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING ` + blogColumns

	args := []any{b.Title, b.Content, pq.Array(b.Tags), b.Image, nullBool(b.Published), b.Featured, b.ID, b.Version}

	updated, err := scanBlog(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	*b = *updated
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return expectOneRow(res)
}

func (s *PostgresStore) IncrementViews(ctx context.Context, id string, n int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE blogs SET view_count = view_count + $1 WHERE id = $2`, n, id)
	if err != nil {
		return err
	}

	return expectOneRow(res)
}

func (s *PostgresStore) ToggleLike(ctx context.Context, id, userID string) (*Blog, error) {
	query := `
		UPDATE blogs
		SET likes = CASE WHEN $2::text = ANY(likes) THEN array_remove(likes, $2::text) ELSE array_append(likes, $2::text) END,
			like_count = CASE WHEN $2::text = ANY(likes) THEN like_count - 1 ELSE like_count + 1 END
		WHERE id = $1
		RETURNING ` + blogColumns

	b, err := scanBlog(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return b, nil
}

func expectOneRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

// foreignKeyError reports whether err is a violation of the named foreign key.
func foreignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

const commentColumns = `id, blog_id, author_id, author_name, author_avatar, content, created_at`

func scanComment(row rowScanner) (*Comment, error) {
	var c Comment

	err := row.Scan(&c.ID, &c.BlogID, &c.Author.ID, &c.Author.Name, &c.Author.AvatarURL, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *PostgresStore) InsertComment(ctx context.Context, c *Comment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	query := `
		INSERT INTO comments (id, blog_id, author_id, author_name, author_avatar, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
		RETURNING created_at`

	var createdAt sql.NullTime
	if !c.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: c.CreatedAt, Valid: true}
	}

	args := []any{c.ID, c.BlogID, c.Author.ID, c.Author.Name, c.Author.AvatarURL, c.Content, createdAt}

	err := s.db.QueryRowContext(ctx, query, args...).Scan(&c.CreatedAt)
	if err != nil {
		switch {
		case foreignKeyError(err, "comments_blog_id_fkey"):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (s *PostgresStore) GetComment(ctx context.Context, id string) (*Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	c, err := scanComment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return c, nil
}

func (s *PostgresStore) ListComments(ctx context.Context, blogID string, limit int) ([]Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE blog_id = $1 ORDER BY created_at DESC, id ASC`
	args := []any{blogID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (s *PostgresStore) DeleteComment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return expectOneRow(res)
}
