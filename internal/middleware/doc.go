// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 目前包含請求日誌（附帶 request id）和 CORS 兩個中間件。
package middleware
