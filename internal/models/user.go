package models

// User - пользователь из JWT, выпущенного identity-бэкендом.
// По Email находится биллинговая запись клиента.
type User struct {
	ID    int    // Идентификатор пользователя в CMS
	Email string // Электронная почта
}
