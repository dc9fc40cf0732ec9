package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"saarthi/internal/models"
	"saarthi/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &PostgresDB{pool: pool}
	if err := db.initSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("Connected to database successfully")
	return db, nil
}

func (db *PostgresDB) initSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			college_roll_no TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL,
			student_phone TEXT NOT NULL,
			parent_phone TEXT NOT NULL,
			student_email TEXT NOT NULL UNIQUE,
			parent_email TEXT NOT NULL,
			student_class TEXT NOT NULL,
			password TEXT NOT NULL,
			id_photo_url TEXT,
			face_descriptor JSONB,
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS attendance_records (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL,
			subject TEXT,
			reason TEXT,
			method TEXT,
			verified BOOLEAN DEFAULT FALSE,
			location TEXT,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS calendar_events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ,
			type TEXT NOT NULL,
			created_by TEXT REFERENCES users(id),
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS exam_schedule (
			id TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			location TEXT NOT NULL,
			instructions TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS syllabus (
			id TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			topic TEXT NOT NULL,
			description TEXT,
			completed BOOLEAN DEFAULT FALSE,
			due_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS chat_messages (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			room TEXT NOT NULL DEFAULT 'general',
			message TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`

	_, err := db.pool.Exec(ctx, schema)
	return err
}

func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

const userColumns = `id, college_roll_no, full_name, student_phone, parent_phone,
	student_email, parent_email, student_class, password, id_photo_url,
	face_descriptor, is_active, created_at`

func (db *PostgresDB) scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	user := &models.User{}
	var descriptor []byte
	err := row.Scan(
		&user.ID, &user.CollegeRollNo, &user.FullName, &user.StudentPhone, &user.ParentPhone,
		&user.StudentEmail, &user.ParentEmail, &user.StudentClass, &user.PasswordHash,
		&user.IDPhotoURL, &descriptor, &user.IsActive, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(descriptor) > 0 {
		if err := json.Unmarshal(descriptor, &user.FaceDescriptor); err != nil {
			logger.Error("Error decoding face descriptor for user %s: %v", user.ID, err)
		}
	}
	return user, nil
}

// User Repository Implementation
func (db *PostgresDB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return db.scanUser(db.pool.QueryRow(ctx, query, id))
}

func (db *PostgresDB) GetUserByRollNo(ctx context.Context, rollNo string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE college_roll_no = $1`
	return db.scanUser(db.pool.QueryRow(ctx, query, rollNo))
}

func (db *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE student_email = $1`
	return db.scanUser(db.pool.QueryRow(ctx, query, email))
}

func (db *PostgresDB) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	var descriptor []byte
	if user.FaceDescriptor != nil {
		descriptor, _ = json.Marshal(user.FaceDescriptor)
	}

	query := `
		INSERT INTO users (
			id, college_roll_no, full_name, student_phone, parent_phone,
			student_email, parent_email, student_class, password, id_photo_url,
			face_descriptor, is_active, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,TRUE,NOW())
		RETURNING ` + userColumns

	return db.scanUser(db.pool.QueryRow(ctx, query,
		user.ID, user.CollegeRollNo, user.FullName, user.StudentPhone, user.ParentPhone,
		user.StudentEmail, user.ParentEmail, user.StudentClass, user.PasswordHash,
		user.IDPhotoURL, descriptor,
	))
}

func (db *PostgresDB) UpdateUser(ctx context.Context, id string, updates *UserUpdates) (*models.User, error) {
	setParts := []string{}
	args := []any{}
	idx := 1

	set := func(col string, val any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if updates.CollegeRollNo != nil {
		set("college_roll_no", *updates.CollegeRollNo)
	}
	if updates.FullName != nil {
		set("full_name", *updates.FullName)
	}
	if updates.StudentPhone != nil {
		set("student_phone", *updates.StudentPhone)
	}
	if updates.ParentPhone != nil {
		set("parent_phone", *updates.ParentPhone)
	}
	if updates.StudentEmail != nil {
		set("student_email", *updates.StudentEmail)
	}
	if updates.ParentEmail != nil {
		set("parent_email", *updates.ParentEmail)
	}
	if updates.StudentClass != nil {
		set("student_class", *updates.StudentClass)
	}
	if updates.IDPhotoURL != nil {
		set("id_photo_url", *updates.IDPhotoURL)
	}
	if updates.PasswordHash != nil {
		set("password", *updates.PasswordHash)
	}
	if updates.FaceDescriptor != nil {
		descriptor, _ := json.Marshal(updates.FaceDescriptor)
		set("face_descriptor", descriptor)
	}

	if len(setParts) == 0 {
		return db.GetUserByID(ctx, id)
	}

	query := "UPDATE users SET "
	for i, part := range setParts {
		if i > 0 {
			query += ", "
		}
		query += part
	}
	query += fmt.Sprintf(" WHERE id = $%d RETURNING ", idx) + userColumns
	args = append(args, id)

	return db.scanUser(db.pool.QueryRow(ctx, query, args...))
}

func (db *PostgresDB) GetFaceDescriptor(ctx context.Context, userID string) ([]float64, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx, `SELECT face_descriptor FROM users WHERE id = $1`, userID).Scan(&raw)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var descriptor []float64
	if err := json.Unmarshal(raw, &descriptor); err != nil {
		return nil, fmt.Errorf("decoding face descriptor: %w", err)
	}
	return descriptor, nil
}

func (db *PostgresDB) UpdateFaceDescriptor(ctx context.Context, userID string, descriptor []float64) error {
	raw, err := json.Marshal(descriptor)
	if err != nil {
		return err
	}
	_, err = db.pool.Exec(ctx, `UPDATE users SET face_descriptor = $1 WHERE id = $2`, raw, userID)
	return err
}

// Attendance Repository Implementation
func (db *PostgresDB) GetAttendanceRecords(ctx context.Context, userID string, start, end *time.Time) ([]*models.AttendanceRecord, error) {
	query := `
		SELECT id, user_id, date, status, subject, reason, method, verified,
		       location, latitude, longitude, created_at
		FROM attendance_records WHERE user_id = $1`
	args := []any{userID}
	idx := 2

	if start != nil {
		query += fmt.Sprintf(" AND date >= $%d", idx)
		args = append(args, *start)
		idx++
	}
	if end != nil {
		query += fmt.Sprintf(" AND date <= $%d", idx)
		args = append(args, *end)
		idx++
	}
	query += " ORDER BY date DESC"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		rec := &models.AttendanceRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Date, &rec.Status, &rec.Subject, &rec.Reason,
			&rec.Method, &rec.Verified, &rec.Location, &rec.Latitude, &rec.Longitude, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (db *PostgresDB) CreateAttendanceRecord(ctx context.Context, rec *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendance_records (
			id, user_id, date, status, subject, reason, method, verified,
			location, latitude, longitude, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW())
		RETURNING id, user_id, date, status, subject, reason, method, verified,
		          location, latitude, longitude, created_at`

	created := &models.AttendanceRecord{}
	err := db.pool.QueryRow(ctx, query,
		rec.ID, rec.UserID, rec.Date, rec.Status, rec.Subject, rec.Reason,
		rec.Method, rec.Verified, rec.Location, rec.Latitude, rec.Longitude,
	).Scan(
		&created.ID, &created.UserID, &created.Date, &created.Status, &created.Subject,
		&created.Reason, &created.Method, &created.Verified, &created.Location,
		&created.Latitude, &created.Longitude, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return created, nil
}

// Calendar Repository Implementation
func (db *PostgresDB) GetCalendarEvents(ctx context.Context, start, end *time.Time) ([]*models.CalendarEvent, error) {
	query := `
		SELECT id, title, description, date, end_date, type, created_by, created_at
		FROM calendar_events`
	args := []any{}
	idx := 1
	where := ""

	if start != nil {
		where = fmt.Sprintf(" WHERE date >= $%d", idx)
		args = append(args, *start)
		idx++
	}
	if end != nil {
		if where == "" {
			where = fmt.Sprintf(" WHERE date <= $%d", idx)
		} else {
			where += fmt.Sprintf(" AND date <= $%d", idx)
		}
		args = append(args, *end)
		idx++
	}
	query += where + " ORDER BY date ASC"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.CalendarEvent
	for rows.Next() {
		ev := &models.CalendarEvent{}
		if err := rows.Scan(
			&ev.ID, &ev.Title, &ev.Description, &ev.Date, &ev.EndDate,
			&ev.Type, &ev.CreatedBy, &ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (db *PostgresDB) CreateCalendarEvent(ctx context.Context, event *models.CalendarEvent) (*models.CalendarEvent, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	query := `
		INSERT INTO calendar_events (id, title, description, date, end_date, type, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		RETURNING id, title, description, date, end_date, type, created_by, created_at`

	created := &models.CalendarEvent{}
	err := db.pool.QueryRow(ctx, query,
		event.ID, event.Title, event.Description, event.Date, event.EndDate, event.Type, event.CreatedBy,
	).Scan(
		&created.ID, &created.Title, &created.Description, &created.Date, &created.EndDate,
		&created.Type, &created.CreatedBy, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}
	return created, nil
}

func (db *PostgresDB) UpdateCalendarEvent(ctx context.Context, id string, req *models.CalendarEventRequest) (*models.CalendarEvent, error) {
	query := `
		UPDATE calendar_events
		SET title = $1, description = $2, date = $3, end_date = $4, type = $5
		WHERE id = $6
		RETURNING id, title, description, date, end_date, type, created_by, created_at`

	var description *string
	if req.Description != "" {
		description = &req.Description
	}

	updated := &models.CalendarEvent{}
	err := db.pool.QueryRow(ctx, query,
		req.Title, description, req.Date, req.EndDate, req.Type, id,
	).Scan(
		&updated.ID, &updated.Title, &updated.Description, &updated.Date, &updated.EndDate,
		&updated.Type, &updated.CreatedBy, &updated.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (db *PostgresDB) DeleteCalendarEvent(ctx context.Context, id string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Exam Repository Implementation
func (db *PostgresDB) GetExamSchedule(ctx context.Context) ([]*models.Exam, error) {
	query := `
		SELECT id, subject, date, start_time, end_time, location, instructions, created_at
		FROM exam_schedule ORDER BY date ASC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []*models.Exam
	for rows.Next() {
		exam := &models.Exam{}
		if err := rows.Scan(
			&exam.ID, &exam.Subject, &exam.Date, &exam.StartTime, &exam.EndTime,
			&exam.Location, &exam.Instructions, &exam.CreatedAt,
		); err != nil {
			return nil, err
		}
		exams = append(exams, exam)
	}
	return exams, rows.Err()
}

func (db *PostgresDB) CreateExam(ctx context.Context, exam *models.Exam) (*models.Exam, error) {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}

	query := `
		INSERT INTO exam_schedule (id, subject, date, start_time, end_time, location, instructions, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		RETURNING id, subject, date, start_time, end_time, location, instructions, created_at`

	created := &models.Exam{}
	err := db.pool.QueryRow(ctx, query,
		exam.ID, exam.Subject, exam.Date, exam.StartTime, exam.EndTime, exam.Location, exam.Instructions,
	).Scan(
		&created.ID, &created.Subject, &created.Date, &created.StartTime, &created.EndTime,
		&created.Location, &created.Instructions, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}
	return created, nil
}

func (db *PostgresDB) UpdateExam(ctx context.Context, id string, req *models.ExamRequest) (*models.Exam, error) {
	query := `
		UPDATE exam_schedule
		SET subject = $1, date = $2, start_time = $3, end_time = $4, location = $5, instructions = $6
		WHERE id = $7
		RETURNING id, subject, date, start_time, end_time, location, instructions, created_at`

	var instructions *string
	if req.Instructions != "" {
		instructions = &req.Instructions
	}

	updated := &models.Exam{}
	err := db.pool.QueryRow(ctx, query,
		req.Subject, req.Date, req.StartTime, req.EndTime, req.Location, instructions, id,
	).Scan(
		&updated.ID, &updated.Subject, &updated.Date, &updated.StartTime, &updated.EndTime,
		&updated.Location, &updated.Instructions, &updated.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (db *PostgresDB) DeleteExam(ctx context.Context, id string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM exam_schedule WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Syllabus Repository Implementation
func (db *PostgresDB) GetSyllabus(ctx context.Context) ([]*models.SyllabusItem, error) {
	query := `
		SELECT id, subject, topic, description, completed, due_date, created_at
		FROM syllabus ORDER BY due_date NULLS LAST, subject ASC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.SyllabusItem
	for rows.Next() {
		item := &models.SyllabusItem{}
		if err := rows.Scan(
			&item.ID, &item.Subject, &item.Topic, &item.Description,
			&item.Completed, &item.DueDate, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (db *PostgresDB) CreateSyllabusItem(ctx context.Context, item *models.SyllabusItem) (*models.SyllabusItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	query := `
		INSERT INTO syllabus (id, subject, topic, description, completed, due_date, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
		RETURNING id, subject, topic, description, completed, due_date, created_at`

	created := &models.SyllabusItem{}
	err := db.pool.QueryRow(ctx, query,
		item.ID, item.Subject, item.Topic, item.Description, item.Completed, item.DueDate,
	).Scan(
		&created.ID, &created.Subject, &created.Topic, &created.Description,
		&created.Completed, &created.DueDate, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create syllabus item: %w", err)
	}
	return created, nil
}

func (db *PostgresDB) UpdateSyllabusItem(ctx context.Context, id string, req *models.SyllabusRequest) (*models.SyllabusItem, error) {
	completed := false
	if req.Completed != nil {
		completed = *req.Completed
	}
	var description *string
	if req.Description != "" {
		description = &req.Description
	}

	query := `
		UPDATE syllabus
		SET subject = $1, topic = $2, description = $3, completed = $4, due_date = $5
		WHERE id = $6
		RETURNING id, subject, topic, description, completed, due_date, created_at`

	updated := &models.SyllabusItem{}
	err := db.pool.QueryRow(ctx, query,
		req.Subject, req.Topic, description, completed, req.DueDate, id,
	).Scan(
		&updated.ID, &updated.Subject, &updated.Topic, &updated.Description,
		&updated.Completed, &updated.DueDate, &updated.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (db *PostgresDB) DeleteSyllabusItem(ctx context.Context, id string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM syllabus WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Chat Message Repository Implementation
func (db *PostgresDB) SaveChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, user_id, room, message, created_at)
		VALUES ($1,$2,$3,$4,$5)`
	_, err := db.pool.Exec(ctx, query, msg.ID, msg.UserID, msg.Room, msg.Message, msg.CreatedAt)
	return err
}

func (db *PostgresDB) RecentChatMessages(ctx context.Context, room string, limit int) ([]*models.ChatMessage, error) {
	query := `
		SELECT id, user_id, room, message, created_at
		FROM chat_messages WHERE room = $1
		ORDER BY created_at DESC LIMIT $2`

	rows, err := db.pool.Query(ctx, query, room, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		msg := &models.ChatMessage{}
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Room, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to show oldest first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
