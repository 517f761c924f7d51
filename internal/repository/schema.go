package repository

import (
	_ "embed"
)

// Schema — DDL таблиц, из которых читают репозитории (используется скриптом reset_db и интеграционными тестами).
//
//go:embed schema.sql
var Schema string

// DropSchema удаляет таблицы в порядке, обратном зависимостям.
const DropSchema = `
	DROP TABLE IF EXISTS reviews CASCADE;
	DROP TABLE IF EXISTS bookings CASCADE;
	DROP TABLE IF EXISTS saved_listings CASCADE;
	DROP TABLE IF EXISTS listings CASCADE;
	DROP TABLE IF EXISTS users CASCADE;
`
