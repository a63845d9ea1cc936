package database

import "fmt"

// migrate cria o esquema quando ainda não existe
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS regras (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		tipo_match TEXT NOT NULL,
		termos TEXT NOT NULL,
		termos_exclusao TEXT,
		campo_destino TEXT NOT NULL,
		valor_destino TEXT NOT NULL,
		categoria_vinculada_id INTEGER,
		pontos_base INTEGER NOT NULL DEFAULT 0,
		genero_automatico TEXT,
		ativa INTEGER NOT NULL DEFAULT 1,
		ordem INTEGER NOT NULL DEFAULT 0,
		criada_em DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_regras_ordem ON regras(ordem);
	CREATE INDEX IF NOT EXISTS idx_regras_ativa ON regras(ativa);

	CREATE TABLE IF NOT EXISTS atributos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		tipo TEXT NOT NULL,
		valores TEXT,
		config TEXT,
		ativo INTEGER NOT NULL DEFAULT 1,
		criado_em DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS produtos_classificados (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		arquivo_origem TEXT,
		lote INTEGER NOT NULL DEFAULT 0,
		categoria TEXT,
		categoria_id INTEGER,
		subcategoria TEXT,
		genero TEXT,
		faixa_etaria TEXT,
		marca TEXT,
		tamanho TEXT,
		cor TEXT,
		material TEXT,
		estilo TEXT,
		atributos_extras TEXT,
		confianca INTEGER NOT NULL DEFAULT 0,
		regras_aplicadas TEXT,
		classificado_em DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_produtos_classificados_lote ON produtos_classificados(lote);
	CREATE INDEX IF NOT EXISTS idx_produtos_classificados_categoria ON produtos_classificados(categoria);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
