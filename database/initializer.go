package database

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Column types that differ between dialects. Every table is written once with these
// tokens and expanded for the store's dialect.
var dialectTypes = map[string]*strings.Replacer{
	DialectPostgres: strings.NewReplacer(
		"{{PK}}", "BIGINT PRIMARY KEY GENERATED ALWAYS AS IDENTITY",
		"{{REF}}", "BIGINT",
		"{{TIMESTAMP}}", "TIMESTAMPTZ",
	),
	DialectSQLite: strings.NewReplacer(
		"{{PK}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{REF}}", "INTEGER",
		"{{TIMESTAMP}}", "DATETIME",
	),
}

func (s *SQLStore) Initialize() error {
	logrus.Debug("initializing tables")
	if err := s.InitTables(); err != nil {
		return err
	}
	s.LogRelationships()
	return nil
}

// Schema returns the DDL statements for the store's dialect, in dependency order
func (s *SQLStore) Schema() []string {
	usuario_table := `
	CREATE TABLE IF NOT EXISTS usuario (
		id {{PK}},
		nome TEXT NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		senha TEXT NOT NULL,
		cargo TEXT NOT NULL,
		criado_em {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
		atualizado_em {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	professor_table := `
	CREATE TABLE IF NOT EXISTS professor_coordenador (
		id {{PK}},
		nome TEXT NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		senha TEXT NOT NULL,
		curso TEXT NOT NULL,
		created_at {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	materia_table := `
	CREATE TABLE IF NOT EXISTS materia (
		id {{PK}},
		nome VARCHAR(255) NOT NULL UNIQUE,
		descricao TEXT,
		created_at {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	evento_table := `
	CREATE TABLE IF NOT EXISTS evento (
		id {{PK}},
		titulo TEXT NOT NULL,
		data {{TIMESTAMP}} NOT NULL,
		responsavel TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pendente',
		local TEXT,
		curso TEXT NOT NULL,
		tipo_evento TEXT NOT NULL,
		modalidade TEXT NOT NULL,
		descricao TEXT,
		imagem TEXT,
		documento TEXT,
		link TEXT,
		criado_em {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
		atualizado_em {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	ods_evento_table := `
	CREATE TABLE IF NOT EXISTS ods_evento (
		id {{PK}},
		evento_id {{REF}} NOT NULL REFERENCES evento(id) ON DELETE CASCADE,
		ods_numero INTEGER NOT NULL
	)`

	anexo_evento_table := `
	CREATE TABLE IF NOT EXISTS anexo_evento (
		id {{PK}},
		evento_id {{REF}} NOT NULL REFERENCES evento(id) ON DELETE CASCADE,
		nome TEXT NOT NULL
	)`

	comentario_table := `
	CREATE TABLE IF NOT EXISTS comentario_evento (
		id {{PK}},
		evento_id {{REF}} NOT NULL REFERENCES evento(id) ON DELETE CASCADE,
		usuario_id {{REF}} REFERENCES usuario(id) ON DELETE SET NULL,
		autor TEXT NOT NULL,
		conteudo TEXT NOT NULL,
		criado_em {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
		atualizado_em {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	projeto_pesquisa_table := `
	CREATE TABLE IF NOT EXISTS projeto_pesquisa (
		id {{PK}},
		titulo TEXT NOT NULL,
		area_tematica TEXT NOT NULL,
		descricao TEXT NOT NULL,
		momento_ocorre {{TIMESTAMP}} NOT NULL,
		problema_pesquisa TEXT NOT NULL,
		metodologia TEXT NOT NULL,
		resultados_esperados TEXT NOT NULL,
		imagem TEXT,
		professor_coordenador_id {{REF}} NOT NULL REFERENCES professor_coordenador(id) ON DELETE CASCADE,
		materia_id {{REF}} REFERENCES materia(id) ON DELETE SET NULL,
		created_at {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	projeto_extensao_table := `
	CREATE TABLE IF NOT EXISTS projeto_extensao (
		id {{PK}},
		titulo TEXT NOT NULL,
		area_tematica TEXT NOT NULL,
		descricao TEXT NOT NULL,
		momento_ocorre {{TIMESTAMP}} NOT NULL,
		tipo_pessoas_procuram TEXT NOT NULL,
		comunidade_envolvida TEXT NOT NULL,
		imagem TEXT,
		professor_coordenador_id {{REF}} NOT NULL REFERENCES professor_coordenador(id) ON DELETE CASCADE,
		materia_id {{REF}} REFERENCES materia(id) ON DELETE SET NULL,
		created_at {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at {{TIMESTAMP}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_evento_data ON evento (data)`,
		`CREATE INDEX IF NOT EXISTS idx_ods_evento_evento_id ON ods_evento (evento_id)`,
		`CREATE INDEX IF NOT EXISTS idx_anexo_evento_evento_id ON anexo_evento (evento_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comentario_evento_evento_id ON comentario_evento (evento_id, criado_em)`,
		`CREATE INDEX IF NOT EXISTS idx_projeto_pesquisa_professor ON projeto_pesquisa (professor_coordenador_id)`,
		`CREATE INDEX IF NOT EXISTS idx_projeto_extensao_professor ON projeto_extensao (professor_coordenador_id)`,
	}

	all_tables := append([]string{
		usuario_table,
		professor_table,
		materia_table,
		evento_table,
		ods_evento_table,
		anexo_evento_table,
		comentario_table,
		projeto_pesquisa_table,
		projeto_extensao_table,
	}, indexes...)

	replacer := dialectTypes[s.dialect]
	statements := make([]string, 0, len(all_tables))
	for _, stmt := range all_tables {
		statements = append(statements, strings.TrimSpace(replacer.Replace(stmt)))
	}
	return statements
}

func (s *SQLStore) InitTables() error {
	for _, stmt := range s.Schema() {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) LogRelationships() {
	relationships := map[string]string{
		"ods_evento":        "evento_id -> evento(id) cascade",
		"anexo_evento":      "evento_id -> evento(id) cascade",
		"comentario_evento": "evento_id -> evento(id) cascade, usuario_id -> usuario(id) set null",
		"projeto_pesquisa":  "professor_coordenador_id -> professor_coordenador(id) cascade, materia_id -> materia(id) set null",
		"projeto_extensao":  "professor_coordenador_id -> professor_coordenador(id) cascade, materia_id -> materia(id) set null",
	}

	for table, relationship := range relationships {
		logrus.WithField("table", table).Debug(relationship)
	}
}
