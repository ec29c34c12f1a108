package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/config"
	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
)

// 存储中使用的键
const (
	KeyUserName        = "userName"
	KeyUserBirthday    = "userBirthday"
	KeyUserBirthTime   = "userBirthTime"
	KeyUserCity        = "userCity"
	KeyUserState       = "userState"
	KeyIsFirstTimeUser = "isFirstTimeUser"
	KeyPlanetInfo      = "userPlanetInfo"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("storage: not found")

// Storage 键值存储，支持 sqlite 和 postgres
type Storage struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// NewStorage 打开数据库并建表
func NewStorage(cfg config.StoreConfig) (*Storage, error) {
	if cfg.Driver == "sqlite" {
		if dir := filepath.Dir(cfg.DSN); dir != "." && !strings.HasPrefix(cfg.DSN, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	s := &Storage{db: db, driver: cfg.Driver, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at BIGINT NOT NULL
)`)
	return err
}

// rebind 把 ? 占位符转换为 postgres 的 $N
func (s *Storage) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Storage) set(ctx context.Context, ex execer, key, value string) error {
	_, err := ex.ExecContext(ctx, s.rebind(`
INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, value, s.now().UnixMilli())
	return err
}

// Get 读取一个键
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT value FROM kv WHERE key = ?`), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

// Set 写入一个键
func (s *Storage) Set(ctx context.Context, key, value string) error {
	return s.set(ctx, s.db, key, value)
}

// Delete 删除若干键，不存在的键忽略
func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM kv WHERE key = ?`), k); err != nil {
			return err
		}
	}
	return nil
}

// SaveProfile 保存用户资料，同时清掉旧的星盘缓存
func (s *Storage) SaveProfile(ctx context.Context, p *dm.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	fields := [][2]string{
		{KeyUserName, p.Name},
		{KeyUserBirthday, p.Birthday.Format(dm.DateLayout)},
		{KeyUserBirthTime, p.BirthTime},
		{KeyUserCity, p.City},
		{KeyUserState, p.State},
		{KeyIsFirstTimeUser, "false"},
	}
	for _, f := range fields {
		if err := s.set(ctx, tx, f[0], f[1]); err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				err = fmt.Errorf("%w: %v", err, rerr)
			}
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM kv WHERE key = ?`), KeyPlanetInfo); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: %v", err, rerr)
		}
		return err
	}
	return tx.Commit()
}

// LoadProfile 读取用户资料，从未保存过时返回 ErrNotFound
func (s *Storage) LoadProfile(ctx context.Context) (*dm.Profile, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT key, value FROM kv WHERE key IN (?, ?, ?, ?, ?)`),
		KeyUserName, KeyUserBirthday, KeyUserBirthTime, KeyUserCity, KeyUserState)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]string, 5)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	name, ok := values[KeyUserName]
	if !ok {
		return nil, ErrNotFound
	}
	p := &dm.Profile{
		Name:      name,
		BirthTime: values[KeyUserBirthTime],
		City:      values[KeyUserCity],
		State:     values[KeyUserState],
	}
	if b := values[KeyUserBirthday]; b != "" {
		t, err := time.Parse(dm.DateLayout, b)
		if err != nil {
			return nil, fmt.Errorf("stored birthday %q: %w", b, err)
		}
		p.Birthday = t
	}
	return p, nil
}

// IsFirstTimeUser 没有保存过资料即为首次使用
func (s *Storage) IsFirstTimeUser(ctx context.Context) (bool, error) {
	v, err := s.Get(ctx, KeyIsFirstTimeUser)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return v != "false", nil
}

// SaveChart 缓存最近一次成功获取的行星信息
func (s *Storage) SaveChart(ctx context.Context, planets []dm.Planet) error {
	data, err := json.Marshal(planets)
	if err != nil {
		return fmt.Errorf("marshal planets: %w", err)
	}
	return s.Set(ctx, KeyPlanetInfo, string(data))
}

// LoadChart 读取缓存的行星信息，没有缓存时返回 ErrNotFound
func (s *Storage) LoadChart(ctx context.Context) ([]dm.Planet, error) {
	v, err := s.Get(ctx, KeyPlanetInfo)
	if err != nil {
		return nil, err
	}
	var planets []dm.Planet
	if err := json.Unmarshal([]byte(v), &planets); err != nil {
		return nil, fmt.Errorf("decode cached chart: %w", err)
	}
	return planets, nil
}
