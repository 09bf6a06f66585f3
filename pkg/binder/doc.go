// Package binder decodes HTTP request bodies.
//
//	var req checkRequest
//	if err := binder.JSON(r, &req, 4<<10); err != nil {
//		// 400
//	}
//
// Errors wrap ErrInvalidJSON, ErrUnsupportedMediaType or ErrBodyTooLarge so
// handlers can pick a status with errors.Is.
package binder
