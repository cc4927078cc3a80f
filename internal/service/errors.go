package service

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrParticipantNotFound = errors.New("participant not found in room")
	ErrTopicUnavailable    = errors.New("no debate topic available")
	// 已知狀態之間的轉換一律允許，只有未知的狀態值會返回此錯誤
	ErrInvalidTransition = errors.New("invalid status transition")
)
