package database

import (
	"github.com/portal-eventos/portal-api/utils/query"
	"github.com/portal-eventos/portal-api/utils/validation"
)

// Field maps of the updatable columns, keyed by the JSON names clients send.

var UserTable = query.Table{
	Name:  "usuario",
	Key:   "id",
	Touch: "atualizado_em",
	Fields: []query.Field{
		{Name: "nome", Column: "nome", Kind: query.String},
		{Name: "email", Column: "email", Kind: query.String, Validate: validation.Email},
		{Name: "senha", Column: "senha", Kind: query.String, Validate: validation.Password},
		{Name: "cargo", Column: "cargo", Kind: query.String},
	},
}

var EventTable = query.Table{
	Name:  "evento",
	Key:   "id",
	Touch: "atualizado_em",
	Fields: []query.Field{
		{Name: "titulo", Column: "titulo", Kind: query.String},
		{Name: "data", Column: "data", Kind: query.Time},
		{Name: "responsavel", Column: "responsavel", Kind: query.String},
		{Name: "status", Column: "status", Kind: query.String},
		{Name: "local", Column: "local", Kind: query.String, Nullable: true},
		{Name: "curso", Column: "curso", Kind: query.String},
		{Name: "tipoEvento", Column: "tipo_evento", Kind: query.String},
		{Name: "modalidade", Column: "modalidade", Kind: query.String},
		{Name: "descricao", Column: "descricao", Kind: query.String, Nullable: true},
		{Name: "imagem", Column: "imagem", Kind: query.String, Nullable: true},
		{Name: "documento", Column: "documento", Kind: query.String, Nullable: true},
		{Name: "link", Column: "link", Kind: query.String, Nullable: true},
	},
}

var CommentTable = query.Table{
	Name:  "comentario_evento",
	Key:   "id",
	Touch: "atualizado_em",
	Fields: []query.Field{
		{Name: "conteudo", Column: "conteudo", Kind: query.String},
	},
}

var ProfessorTable = query.Table{
	Name:  "professor_coordenador",
	Key:   "id",
	Touch: "updated_at",
	Fields: []query.Field{
		{Name: "nome", Column: "nome", Kind: query.String},
		{Name: "email", Column: "email", Kind: query.String, Validate: validation.Email},
		{Name: "senha", Column: "senha", Kind: query.String, Validate: validation.Password},
		{Name: "curso", Column: "curso", Kind: query.String},
	},
}

var projectHeaderFields = []query.Field{
	{Name: "titulo", Column: "titulo", Kind: query.String},
	{Name: "areaTematica", Column: "area_tematica", Kind: query.String},
	{Name: "descricao", Column: "descricao", Kind: query.String},
	{Name: "momentoOcorre", Column: "momento_ocorre", Kind: query.Time},
	{Name: "imagem", Column: "imagem", Kind: query.String, Nullable: true},
	{Name: "materiaId", Column: "materia_id", Kind: query.Int, Nullable: true},
}

var ResearchProjectTable = query.Table{
	Name:  "projeto_pesquisa",
	Key:   "id",
	Touch: "updated_at",
	Fields: append(append([]query.Field{}, projectHeaderFields...),
		query.Field{Name: "problemaPesquisa", Column: "problema_pesquisa", Kind: query.String},
		query.Field{Name: "metodologia", Column: "metodologia", Kind: query.String},
		query.Field{Name: "resultadosEsperados", Column: "resultados_esperados", Kind: query.String},
	),
}

var ExtensionProjectTable = query.Table{
	Name:  "projeto_extensao",
	Key:   "id",
	Touch: "updated_at",
	Fields: append(append([]query.Field{}, projectHeaderFields...),
		query.Field{Name: "tipoPessoasProcuram", Column: "tipo_pessoas_procuram", Kind: query.String},
		query.Field{Name: "comunidadeEnvolvida", Column: "comunidade_envolvida", Kind: query.String},
	),
}

var SubjectTable = query.Table{
	Name:  "materia",
	Key:   "id",
	Touch: "updated_at",
	Fields: []query.Field{
		{Name: "nome", Column: "nome", Kind: query.String},
		{Name: "descricao", Column: "descricao", Kind: query.String, Nullable: true},
	},
}
