package app

import "strconv"

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandSeed は起動中のAPIサーバーにテストデータを投入することを示す。
	CommandSeed Command = "seed"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// Args はコマンドライン引数の解析結果。
type Args struct {
	Command Command
	// Port は位置引数で指定されたポート。未指定なら空文字列。
	Port string
}

// ParseArgs はコマンドライン引数からサブコマンドとポートを解析する。
//
//	studymate [serve|seed|healthcheck] [port]
//
// 先頭が数値ならサブコマンド省略（serve）のポート指定とみなす。
// 引数が空またはサポート外のコマンドの場合はCommandServeを返す。
func ParseArgs(args []string) Args {
	if len(args) == 0 {
		return Args{Command: CommandServe}
	}

	if isPort(args[0]) {
		return Args{Command: CommandServe, Port: args[0]}
	}

	parsed := Args{Command: ParseCommand(args[:1])}
	if len(args) > 1 && isPort(args[1]) {
		parsed.Port = args[1]
	}
	return parsed
}

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandServeを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "seed":
		return CommandSeed
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}

func isPort(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n > 0 && n <= 65535
}
