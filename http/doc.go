// Package http implements the REST API of the filecab service.
//
// Routes:
//
//	POST /users                  register               201 {id,email}
//	GET  /connect                Basic auth -> token    200 {token}
//	GET  /disconnect             revoke session         204
//	GET  /users/me               current account        200 {id,email}
//	POST /files                  upload                 201 File
//	GET  /files/{id}             show one               200 File
//	GET  /files?parentId&page    list page (max 20)     200 [File]
//	PUT  /files/{id}/publish     make public            200 File
//	PUT  /files/{id}/unpublish   make private           200 File
//	GET  /files/{id}/data        raw content            200 bytes
//
// Authenticated routes read the session token from the X-Token header; the
// content route accepts it optionally, since public files need no session.
// Errors are returned as {"error": "<message>"}.
package http
