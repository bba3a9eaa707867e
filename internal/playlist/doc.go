// Package playlist implements the capacity-bounded playlist.
//
// A Playlist keeps media items in insertion order and never grows past the
// capacity it was created with. The two mutating operations fail differently:
//   - AddItem on a full playlist returns ErrPlaylistFull and changes nothing;
//     callers report it and carry on.
//   - RemoveLast on an empty playlist returns ErrEmptyPlaylist; callers must
//     handle it before continuing the action that needed the item.
//
// Merge produces a new playlist with cloned items, so merged results can be
// modified without touching their sources.
package playlist
