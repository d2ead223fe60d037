package network

import (
	"testing"

	"github.com/gorilla/websocket"

	"bomberman/server/messages"
)

func TestCodecByName(t *testing.T) {
	tests := []struct {
		name  string
		want  string
		frame int
	}{
		{"", "json", websocket.TextMessage},
		{"json", "json", websocket.TextMessage},
		{"msgpack", "msgpack", websocket.BinaryMessage},
	}
	for _, tt := range tests {
		c, err := CodecByName(tt.name)
		if err != nil {
			t.Fatalf("CodecByName(%q): %v", tt.name, err)
		}
		if c.Name() != tt.want || c.FrameType() != tt.frame {
			t.Errorf("CodecByName(%q) = %s/%d", tt.name, c.Name(), c.FrameType())
		}
	}
	if _, err := CodecByName("xml"); err == nil {
		t.Fatalf("expected error for unknown codec")
	}
}

func TestCodecsDecodeCommandEnvelope(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			data, err := codec.Marshal(messages.BaseMessage{
				Type:    messages.MessageTypeCommand,
				Payload: messages.Command{Name: "key", Args: []interface{}{"down", 273}},
			})
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}

			var base messages.BaseMessage
			if err := codec.Unmarshal(data, &base); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if base.Type != messages.MessageTypeCommand {
				t.Fatalf("type = %q", base.Type)
			}

			var cmd messages.Command
			if err := Convert(codec, base.Payload, &cmd); err != nil {
				t.Fatalf("Convert: %v", err)
			}
			in, err := cmd.ParseInput()
			if err != nil {
				t.Fatalf("ParseInput: %v", err)
			}
			if in.State != "down" || in.Code != 273 || in.Binding != nil {
				t.Fatalf("unexpected input %+v", in)
			}
		})
	}
}
