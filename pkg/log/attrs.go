package log

import "log/slog"

func FlowType[T ~string](ft T) slog.Attr {
	return slog.String("flow_type", string(ft))
}

func InstanceID[T ~string](id T) slog.Attr {
	return slog.String("instance_id", string(id))
}

func Action[T ~string](action T) slog.Attr {
	return slog.String("action", string(action))
}

func State[T ~string](state T) slog.Attr {
	return slog.String("state", string(state))
}

func Role[T ~string](role T) slog.Attr {
	return slog.String("role", string(role))
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
