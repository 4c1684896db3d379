// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler
// annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["Auth"], "summary": "Регистрация", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["Auth"], "summary": "Вход в систему", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/refresh": {"post": {"tags": ["Auth"], "summary": "Обновление токенов", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"tags": ["Auth"], "security": [{"BearerAuth": []}], "summary": "Выход", "responses": {"204": {"description": "No Content"}}}},
        "/users": {"get": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "Список пользователей", "responses": {"200": {"description": "OK"}}}},
        "/users/current": {
            "get": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "Текущий пользователь", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "Обновить свой профиль", "responses": {"200": {"description": "OK"}}}
        },
        "/users/current/password": {"patch": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "Сменить пароль", "responses": {"204": {"description": "No Content"}}}},
        "/users/current/telegram": {"put": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "Привязать Telegram", "responses": {"204": {"description": "No Content"}}}},
        "/users/{id}": {"get": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "Пользователь по ID", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/groups": {
            "get": {"tags": ["Groups"], "security": [{"BearerAuth": []}], "summary": "Мои группы", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Groups"], "security": [{"BearerAuth": []}], "summary": "Создать группу", "responses": {"201": {"description": "Created"}}}
        },
        "/groups/{id}": {
            "get": {"tags": ["Groups"], "security": [{"BearerAuth": []}], "summary": "Группа с участниками", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "put": {"tags": ["Groups"], "security": [{"BearerAuth": []}], "summary": "Изменить группу (админ)", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Groups"], "security": [{"BearerAuth": []}], "summary": "Удалить группу (админ)", "responses": {"204": {"description": "No Content"}}}
        },
        "/groups/{id}/members": {
            "post": {"tags": ["Groups"], "security": [{"BearerAuth": []}], "summary": "Добавить участников (админ)", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}},
            "delete": {"tags": ["Groups"], "security": [{"BearerAuth": []}], "summary": "Удалить участников (админ)", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/groups/{id}/members/role": {"put": {"tags": ["Groups"], "security": [{"BearerAuth": []}], "summary": "Сменить роль участников (админ)", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/groups/{id}/leave": {"post": {"tags": ["Groups"], "security": [{"BearerAuth": []}], "summary": "Выйти из группы", "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}}},
        "/groups/{id}/posts": {
            "get": {"tags": ["Posts"], "security": [{"BearerAuth": []}], "summary": "Посты группы", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Posts"], "security": [{"BearerAuth": []}], "summary": "Опубликовать пост в группе", "responses": {"201": {"description": "Created"}}}
        },
        "/contacts": {
            "get": {"tags": ["Contacts"], "security": [{"BearerAuth": []}], "summary": "Все контакты", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Contacts"], "security": [{"BearerAuth": []}], "summary": "Заявка в контакты", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/contacts/pending": {"get": {"tags": ["Contacts"], "security": [{"BearerAuth": []}], "summary": "Входящие заявки", "responses": {"200": {"description": "OK"}}}},
        "/contacts/friends": {"get": {"tags": ["Contacts"], "security": [{"BearerAuth": []}], "summary": "Друзья", "responses": {"200": {"description": "OK"}}}},
        "/contacts/{id}/accept": {"post": {"tags": ["Contacts"], "security": [{"BearerAuth": []}], "summary": "Принять заявку", "responses": {"200": {"description": "OK"}}}},
        "/contacts/{id}/reject": {"post": {"tags": ["Contacts"], "security": [{"BearerAuth": []}], "summary": "Отклонить заявку", "responses": {"204": {"description": "No Content"}}}},
        "/contacts/{id}": {"delete": {"tags": ["Contacts"], "security": [{"BearerAuth": []}], "summary": "Удалить контакт", "responses": {"204": {"description": "No Content"}}}},
        "/notifications": {
            "get": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Уведомления", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Удалить все уведомления", "responses": {"200": {"description": "OK"}}}
        },
        "/notifications/unread-count": {"get": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Количество непрочитанных", "responses": {"200": {"description": "OK"}}}},
        "/notifications/read-all": {"put": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Прочитать все", "responses": {"200": {"description": "OK"}}}},
        "/notifications/{id}": {
            "get": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Уведомление", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Удалить уведомление", "responses": {"204": {"description": "No Content"}}}
        },
        "/notifications/{id}/read": {"put": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Отметить прочитанным", "responses": {"204": {"description": "No Content"}}}},
        "/chat-groups": {
            "get": {"tags": ["Chat"], "security": [{"BearerAuth": []}], "summary": "Мои групповые чаты", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Chat"], "security": [{"BearerAuth": []}], "summary": "Создать групповой чат", "responses": {"201": {"description": "Created"}}}
        },
        "/chat-groups/{id}": {"get": {"tags": ["Chat"], "security": [{"BearerAuth": []}], "summary": "Групповой чат", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/chat-groups/{id}/messages": {"get": {"tags": ["Chat"], "security": [{"BearerAuth": []}], "summary": "История группового чата", "responses": {"200": {"description": "OK"}}}},
        "/messages": {"post": {"tags": ["Chat"], "security": [{"BearerAuth": []}], "summary": "Отправить сообщение", "responses": {"201": {"description": "Created"}}}},
        "/messages/direct/{userId}": {"get": {"tags": ["Chat"], "security": [{"BearerAuth": []}], "summary": "Личная переписка", "responses": {"200": {"description": "OK"}}}},
        "/messages/export": {"get": {"tags": ["Chat"], "security": [{"BearerAuth": []}], "produces": ["application/pdf"], "summary": "Экспорт переписки в PDF", "responses": {"200": {"description": "OK"}}}},
        "/posts/{id}": {
            "get": {"tags": ["Posts"], "security": [{"BearerAuth": []}], "summary": "Пост", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Posts"], "security": [{"BearerAuth": []}], "summary": "Удалить пост", "responses": {"204": {"description": "No Content"}}}
        },
        "/posts/{id}/comments": {
            "get": {"tags": ["Posts"], "security": [{"BearerAuth": []}], "summary": "Комментарии к посту", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Posts"], "security": [{"BearerAuth": []}], "summary": "Комментировать пост", "responses": {"201": {"description": "Created"}}}
        },
        "/posts/{id}/reactions": {"post": {"tags": ["Posts"], "security": [{"BearerAuth": []}], "summary": "Реакция на пост", "responses": {"200": {"description": "OK"}}}},
        "/comments/{id}/reactions": {"post": {"tags": ["Posts"], "security": [{"BearerAuth": []}], "summary": "Реакция на комментарий", "responses": {"200": {"description": "OK"}}}},
        "/offices": {"post": {"tags": ["Offices"], "security": [{"BearerAuth": []}], "summary": "Создать офис (admin)", "responses": {"201": {"description": "Created"}}}},
        "/offices/{id}/children": {"get": {"tags": ["Offices"], "security": [{"BearerAuth": []}], "summary": "Дочерние офисы", "responses": {"200": {"description": "OK"}}}},
        "/offices/{id}/subtree": {"get": {"tags": ["Offices"], "security": [{"BearerAuth": []}], "summary": "Поддерево офиса", "responses": {"200": {"description": "OK"}}}},
        "/offices/{id}/ancestors": {"get": {"tags": ["Offices"], "security": [{"BearerAuth": []}], "summary": "Путь от корня", "responses": {"200": {"description": "OK"}}}},
        "/ws": {"get": {"tags": ["Chat"], "summary": "Websocket", "responses": {"101": {"description": "Switching Protocols"}}}},
        "/healthz": {"get": {"tags": ["System"], "summary": "Healthcheck", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "socialchat API",
	Description:      "Группы, посты, контакты, уведомления и чат в реальном времени.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
