package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"catalogo/classification"
)

// Config configuração do pool de conexões
type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB banco SQLite com regras, atributos customizados e itens classificados
type DB struct {
	conn *sql.DB
}

// New abre (ou cria) o banco no caminho dado e aplica as migrações
func New(path string, cfg Config) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close fecha a conexão com o banco
func (db *DB) Close() error {
	return db.conn.Close()
}

// SaveRule insere ou atualiza uma regra de classificação
func (db *DB) SaveRule(r classification.Rule) (int, error) {
	terms, err := json.Marshal(r.Terms)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal terms: %w", err)
	}
	exclusions, err := json.Marshal(r.ExclusionTerms)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal exclusion terms: %w", err)
	}

	if r.ID > 0 {
		_, err = db.conn.Exec(`
			UPDATE regras SET nome = ?, tipo_match = ?, termos = ?, termos_exclusao = ?,
				campo_destino = ?, valor_destino = ?, categoria_vinculada_id = ?,
				pontos_base = ?, genero_automatico = ?, ativa = ?, ordem = ?
			WHERE id = ?`,
			r.Name, string(r.MatchType), string(terms), string(exclusions),
			r.TargetField, r.TargetValue, r.LinkedCategoryID,
			r.BasePoints, r.AutoGenderValue, r.Active, r.Order, r.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to update rule: %w", err)
		}
		return r.ID, nil
	}

	result, err := db.conn.Exec(`
		INSERT INTO regras (nome, tipo_match, termos, termos_exclusao, campo_destino,
			valor_destino, categoria_vinculada_id, pontos_base, genero_automatico, ativa, ordem)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, string(r.MatchType), string(terms), string(exclusions),
		r.TargetField, r.TargetValue, r.LinkedCategoryID,
		r.BasePoints, r.AutoGenderValue, r.Active, r.Order)
	if err != nil {
		return 0, fmt.Errorf("failed to insert rule: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get rule id: %w", err)
	}
	return int(id), nil
}

// ListRules retorna todas as regras em ordem de aplicação
func (db *DB) ListRules() ([]classification.Rule, error) {
	rows, err := db.conn.Query(`
		SELECT id, nome, tipo_match, termos, termos_exclusao, campo_destino,
			valor_destino, categoria_vinculada_id, pontos_base, genero_automatico, ativa, ordem
		FROM regras ORDER BY ordem ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var rules []classification.Rule
	for rows.Next() {
		var r classification.Rule
		var matchType string
		var terms string
		var exclusions, autoGender sql.NullString
		var linkedCategoryID sql.NullInt64

		if err := rows.Scan(&r.ID, &r.Name, &matchType, &terms, &exclusions,
			&r.TargetField, &r.TargetValue, &linkedCategoryID,
			&r.BasePoints, &autoGender, &r.Active, &r.Order); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}

		r.MatchType = classification.MatchType(matchType)
		if err := json.Unmarshal([]byte(terms), &r.Terms); err != nil {
			return nil, fmt.Errorf("failed to unmarshal terms of rule %d: %w", r.ID, err)
		}
		if exclusions.Valid && exclusions.String != "" && exclusions.String != "null" {
			if err := json.Unmarshal([]byte(exclusions.String), &r.ExclusionTerms); err != nil {
				return nil, fmt.Errorf("failed to unmarshal exclusion terms of rule %d: %w", r.ID, err)
			}
		}
		if autoGender.Valid {
			r.AutoGenderValue = autoGender.String
		}
		if linkedCategoryID.Valid {
			id := int(linkedCategoryID.Int64)
			r.LinkedCategoryID = &id
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// SaveCustomAttribute insere um atributo customizado
func (db *DB) SaveCustomAttribute(attr classification.CustomAttribute) (int, error) {
	values, err := json.Marshal(attr.Values)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal values: %w", err)
	}

	result, err := db.conn.Exec(`
		INSERT INTO atributos (nome, tipo, valores, config, ativo)
		VALUES (?, ?, ?, ?, ?)`,
		attr.Name, string(attr.Kind), string(values), attr.Config, attr.Active)
	if err != nil {
		return 0, fmt.Errorf("failed to insert attribute: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get attribute id: %w", err)
	}
	return int(id), nil
}

// ListCustomAttributes retorna todos os atributos customizados
func (db *DB) ListCustomAttributes() ([]classification.CustomAttribute, error) {
	rows, err := db.conn.Query(`SELECT id, nome, tipo, valores, config, ativo FROM atributos ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query attributes: %w", err)
	}
	defer rows.Close()

	var attrs []classification.CustomAttribute
	for rows.Next() {
		var attr classification.CustomAttribute
		var kind string
		var values, config sql.NullString

		if err := rows.Scan(&attr.ID, &attr.Name, &kind, &values, &config, &attr.Active); err != nil {
			return nil, fmt.Errorf("failed to scan attribute: %w", err)
		}
		attr.Kind = classification.AttributeKind(kind)
		if config.Valid {
			attr.Config = config.String
		}
		if values.Valid && values.String != "" && values.String != "null" {
			if err := json.Unmarshal([]byte(values.String), &attr.Values); err != nil {
				return nil, fmt.Errorf("failed to unmarshal values of attribute %d: %w", attr.ID, err)
			}
		}
		attrs = append(attrs, attr)
	}
	return attrs, rows.Err()
}

// SaveClassifiedBatch persiste um macro-lote de itens classificados em uma
// única transação. É o sink aguardado pelo classificador em lote.
func (db *DB) SaveClassifiedBatch(batch []classification.ClassifiedItem, batchIndex int) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO produtos_classificados (
			nome, arquivo_origem, lote, categoria, categoria_id, subcategoria, genero,
			faixa_etaria, marca, tamanho, cor, material, estilo, atributos_extras,
			confianca, regras_aplicadas
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range batch {
		extras, err := json.Marshal(item.Result.ExtraAttributes)
		if err != nil {
			return fmt.Errorf("failed to marshal extra attributes: %w", err)
		}
		applied, err := json.Marshal(item.Result.AppliedRuleNames)
		if err != nil {
			return fmt.Errorf("failed to marshal applied rules: %w", err)
		}

		if _, err := stmt.Exec(
			item.Name, item.Origin, batchIndex,
			item.Result.Category, item.Result.CategoryID, item.Result.Subcategory,
			item.Result.Gender, item.Result.AgeRange, item.Result.Brand,
			item.Result.Size, item.Result.Color, item.Result.Material, item.Result.Style,
			string(extras), item.Result.Confidence, string(applied),
		); err != nil {
			return fmt.Errorf("failed to insert classified item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch %d: %w", batchIndex, err)
	}
	return nil
}

// CountClassified retorna o total de itens classificados persistidos
func (db *DB) CountClassified() (int, error) {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM produtos_classificados`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count classified items: %w", err)
	}
	return count, nil
}
