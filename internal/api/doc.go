// Package api 處理 HTTP 請求路由和處理。
//
// 這個包包含了所有的 HTTP 處理器（handlers）。
// REST 路由只提供房間狀態的唯讀查詢，所有變更都經由 WebSocket 進入引擎。
package api
