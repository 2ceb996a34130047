// Package server は、HTTPサーバーとルーティングを管理します。
//
// このパッケージは、HTTPサーバーの起動と停止、APIのルーティング、
// 静的ファイルの配信を担当します。
//
// 責務:
//   - HTTPサーバーの起動と管理
//   - /api 配下の挨拶エンドポイントの処理
//   - どのルートにも一致しないリクエストの静的ファイル配信
//   - リクエストIDの付与とアクセスログの出力
//
// ルーティング（先に一致したものが優先）:
//   - POST /api/hello         固定の挨拶 (202, text/plain)
//   - GET  /api/hello/        クエリ name による挨拶 (200, JSON)
//   - GET  /api/hello/:name   パスセグメントによる挨拶 (200, text/plain)
//   - それ以外                静的ファイル (200 / 404)
//
// 仕様:
//   - ルーティングにはginを使用
//   - グレースフルシャットダウンに対応
//   - ハンドラは状態を持たず、リクエスト同士は独立して処理される
package server
